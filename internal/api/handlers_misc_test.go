// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/middleware"
	"github.com/tomtom215/pantryrank/internal/models"
)

func TestRankings(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	for i, user := range []string{"ana", "ana", "zoe", "bob", "zoe", "ana"} {
		s.createProduct(user, productInput(fmt.Sprintf("Producto %d", i+1)))
	}
	// Product 4 gets two extra reviews, product 2 one.
	for _, id := range []int{4, 4, 2} {
		rec, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/products/%d/ratings", id), "bob", models.RatingDelta{Rating: models.Score(7)})
		if rec.Code != http.StatusOK {
			t.Fatalf("rating product %d: %d", id, rec.Code)
		}
	}

	t.Run("trending", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/v1/trending?limit=3", "", nil)
		got := decodeData[[]models.Product](t, env)
		want := []int64{4, 2, 1}
		if len(got) != len(want) {
			t.Fatalf("got %d products", len(got))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("trending[%d] = %d, want %d", i, got[i].ID, want[i])
			}
		}
	})

	t.Run("trending default limit", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/v1/trending?limit=zero", "", nil)
		if got := decodeData[[]models.Product](t, env); len(got) != 6 {
			t.Errorf("got %d products", len(got))
		}
	})

	t.Run("tops", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/v1/tops", "", nil)
		got := decodeData[[]models.Contributor](t, env)
		want := []struct {
			id    string
			count int64
		}{{"ana", 3}, {"zoe", 2}, {"bob", 1}}
		if len(got) != len(want) {
			t.Fatalf("got %d contributors", len(got))
		}
		for i, w := range want {
			if got[i].UserID != w.id || got[i].Contributions != w.count || got[i].Rank != i+1 {
				t.Errorf("tops[%d] = %+v", i, got[i])
			}
		}
		if got[0].DisplayName != "ana" {
			t.Errorf("display name falls back to the id, got %q", got[0].DisplayName)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set(userHeader, "ana")
	req.Header.Set("X-Forwarded-Email", "ana@example.com")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	u := decodeData[models.User](t, env)
	if u.ID != "ana" || u.Email != "ana@example.com" {
		t.Errorf("user = %+v", u)
	}

	if rec, _ := s.do(http.MethodGet, "/api/v1/user", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", rec.Code)
	}
}

func TestAuthenticatedReadsKeepRankingCache(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createProduct("ana", productInput("Leche Entera"))

	trending := func() []models.Product {
		_, env := s.do(http.MethodGet, "/api/v1/trending", "", nil)
		return decodeData[[]models.Product](t, env)
	}
	if got := trending(); len(got) != 1 {
		t.Fatalf("trending = %+v", got)
	}

	// Written behind the service, so only a cleared cache would show it.
	if _, err := s.store.CreateProduct(context.Background(), &models.Product{Name: "Oculto", CreatorUserID: "zoe"}); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/api/v1/user", "/api/v1/my-products"} {
		if rec, _ := s.do(http.MethodGet, path, "ana", nil); rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
	}
	if rec, _ := s.do(http.MethodGet, "/api/v1/user", "newcomer", nil); rec.Code != http.StatusOK {
		t.Fatalf("GET /user for a new caller status = %d", rec.Code)
	}
	if _, err := s.svc.GetUser(context.Background(), "newcomer"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("read-only request stored a profile: err = %v", err)
	}

	if got := trending(); len(got) != 1 {
		t.Errorf("authenticated reads cleared the ranking cache: %+v", got)
	}
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "photo")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestImageUploadAndFetch(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	upload := func(user, field string, data []byte) (*httptest.ResponseRecorder, envelope) {
		body, contentType := multipartBody(t, field, data)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		if user != "" {
			req.Header.Set(userHeader, user)
		}
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		var env envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		return rec, env
	}

	rec, env := upload("ana", "image", png)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	img := decodeData[models.ImageUpload](t, env)
	if img.ContentType != "image/png" || img.ImageURL != "/api/v1/images/"+img.ID {
		t.Errorf("upload = %+v", img)
	}

	getRec := httptest.NewRecorder()
	s.handler.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, img.ImageURL, nil))
	if getRec.Code != http.StatusOK || getRec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("fetch status = %d, type %q", getRec.Code, getRec.Header().Get("Content-Type"))
	}
	if !bytes.Equal(getRec.Body.Bytes(), png) {
		t.Error("fetched bytes differ from upload")
	}

	cached := httptest.NewRequest(http.MethodGet, img.ImageURL, nil)
	cached.Header.Set("If-None-Match", getRec.Header().Get("ETag"))
	cachedRec := httptest.NewRecorder()
	s.handler.ServeHTTP(cachedRec, cached)
	if cachedRec.Code != http.StatusNotModified {
		t.Errorf("conditional fetch status = %d", cachedRec.Code)
	}

	tests := []struct {
		name       string
		user       string
		field      string
		data       []byte
		wantStatus int
	}{
		{"anonymous", "", "image", png, http.StatusUnauthorized},
		{"wrong field", "ana", "file", png, http.StatusBadRequest},
		{"not an image", "ana", "image", []byte("hello, plain text"), http.StatusUnsupportedMediaType},
		{"too large", "ana", "image", append(png, bytes.Repeat([]byte{1}, 2<<10)...), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := upload(tt.user, tt.field, tt.data)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	if rec, _ := s.do(http.MethodGet, "/api/v1/images/"+strings.Repeat("0", 32), "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown image status = %d", rec.Code)
	}
	if rec, _ := s.do(http.MethodGet, "/api/v1/images/not-hex", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid image id status = %d", rec.Code)
	}
}

func TestReferenceData(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	_, env := s.do(http.MethodGet, "/api/v1/categories", "", nil)
	cats := decodeData[[]models.Category](t, env)
	if len(cats) != 5 || cats[0].Name != "Alimentación" {
		t.Errorf("categories = %+v", cats)
	}

	_, env = s.do(http.MethodGet, "/api/v1/supermarkets", "", nil)
	markets := decodeData[[]string](t, env)
	if len(markets) != len(models.Supermarkets()) || *env.Metadata.Count != len(markets) {
		t.Errorf("got %d supermarkets", len(markets))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		rec, env := s.do(http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK || env.Status != "success" {
			t.Errorf("%s: status %d %q", path, rec.Code, env.Status)
		}
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pantryrank_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	rec, env := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestRateLimits(t *testing.T) {
	t.Parallel()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 3
	cfg.WriteRateLimitRequests = 1
	s := newTestServerWithConfig(t, cfg)

	s.createProduct("ana", productInput("Leche"))
	rec, env := s.do(http.MethodPost, "/api/v1/products", "ana", productInput("Pan"))
	if rec.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != ErrCodeRateLimited {
		t.Fatalf("second write: status %d, error %+v", rec.Code, env.Error)
	}

	// Both writes counted against the global limit too.
	if rec, _ := s.do(http.MethodGet, "/api/v1/products", "", nil); rec.Code != http.StatusOK {
		t.Errorf("read within limit: status %d", rec.Code)
	}
	if rec, _ := s.do(http.MethodGet, "/api/v1/products", "", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("read over limit: status %d", rec.Code)
	}

	// Health checks are not rate limited.
	if rec, _ := s.do(http.MethodGet, "/api/v1/health/live", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", catalog.NewValidationError("rating", "rating is too high"), http.StatusBadRequest, ErrCodeValidation, ""},
		{"not found", catalog.ProductNotFound(3), http.StatusNotFound, ErrCodeNotFound, ""},
		{"conflict", &catalog.ConcurrencyError{ProductID: 3, Attempts: 3}, http.StatusConflict, ErrCodeConflict, catalog.ConcurrencyUserMessage},
		{"persistence", &catalog.PersistenceError{Op: "merge", Err: errors.New("disk on fire")}, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, catalog.PersistenceUserMessage},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.Status != "error" || env.Error.Code != tt.wantCode {
				t.Errorf("envelope = %+v", env)
			}
			if tt.wantMsg != "" && env.Error.Message != tt.wantMsg {
				t.Errorf("message = %q", env.Error.Message)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("storage details leaked to the client")
			}
		})
	}
}
