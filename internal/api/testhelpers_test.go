// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pantryrank/internal/auth"
	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/images"
	"github.com/tomtom215/pantryrank/internal/models"
)

const userHeader = "X-Forwarded-User"

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	svc     *catalog.Service
	store   *catalog.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, &ChiMiddlewareConfig{RateLimitDisabled: true})
}

func newTestServerWithConfig(t *testing.T, mwCfg *ChiMiddlewareConfig) *testServer {
	t.Helper()

	store := catalog.NewMemoryStore()
	svc := catalog.NewService(store, catalog.DefaultOptions())
	t.Cleanup(svc.Close)

	imgs, err := images.Open(&config.ImagesConfig{
		InMemory:       true,
		MaxUploadBytes: 1 << 10,
		PublicBaseURL:  "/api/v1/images",
	})
	if err != nil {
		t.Fatalf("images.Open: %v", err)
	}
	t.Cleanup(func() { _ = imgs.Close() })

	router := NewRouter(NewHandler(svc, imgs), auth.NewProxyAuthenticator(userHeader), mwCfg)
	return &testServer{t: t, handler: router.Setup(), svc: svc, store: store}
}

// do performs a request. user may be empty for anonymous calls.
func (s *testServer) do(method, path, user string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); ct == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
	return v
}

func productInput(name string) models.NewProductInput {
	return models.NewProductInput{
		Name:        name,
		Brand:       "Hacendado",
		CategoryID:  1,
		Supermarket: "Mercadona",
		ImageURL:    "/api/v1/images/abc",
		Rating:      models.Score(6),
	}
}

// createProduct creates a product through the API and returns it.
func (s *testServer) createProduct(user string, in models.NewProductInput) models.Product {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/products", user, in)
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("create %q: status %d: %s", in.Name, rec.Code, rec.Body.String())
	}
	return decodeData[models.Product](s.t, env)
}
