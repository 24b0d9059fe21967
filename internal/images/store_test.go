// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package images

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/pantryrank/internal/config"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 64)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x02}, 64)...)
	gifBytes  = append([]byte("GIF89a"), bytes.Repeat([]byte{0x03}, 64)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0x04}, 64)...)
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	s, err := Open(&config.ImagesConfig{
		InMemory:       true,
		MaxUploadBytes: maxBytes,
		PublicBaseURL:  "/api/v1/images/",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 1<<20)
	ctx := context.Background()

	tests := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{"png", pngBytes, "image/png"},
		{"jpeg", jpegBytes, "image/jpeg"},
		{"gif", gifBytes, "image/gif"},
		{"webp", webpBytes, "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, err := s.Put(ctx, tt.data)
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
			if up.ContentType != tt.contentType || up.Size != len(tt.data) {
				t.Errorf("upload = %+v", up)
			}
			if up.ImageURL != "/api/v1/images/"+up.ID {
				t.Errorf("ImageURL = %q", up.ImageURL)
			}

			img, err := s.Get(ctx, up.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !bytes.Equal(img.Data, tt.data) || img.ContentType != tt.contentType {
				t.Errorf("Get returned %s with %d bytes", img.ContentType, len(img.Data))
			}
		})
	}
}

func TestPutDeduplicates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 1<<20)
	ctx := context.Background()

	first, err := s.Put(ctx, pngBytes)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	second, err := s.Put(ctx, append([]byte(nil), pngBytes...))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("identical bytes got ids %s and %s", first.ID, second.ID)
	}
	if first.ID != ContentID(pngBytes) || !ValidID(first.ID) {
		t.Errorf("id %q is not the content id", first.ID)
	}
}

func TestPutRejects(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 128)
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrEmpty},
		{"too large", append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 200)...), ErrTooLarge},
		{"text", []byte("hello, this is not an image"), ErrUnsupportedType},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Put(ctx, tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Put err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 1<<20)
	ctx := context.Background()

	if _, err := s.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("traversal id err = %v", err)
	}
	if _, err := s.Get(ctx, strings.Repeat("a", idLength)); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Get(canceled, strings.Repeat("a", idLength)); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled err = %v", err)
	}
}

func TestReadLimited(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, 10)
	if data, err := s.ReadLimited(strings.NewReader("0123456789")); err != nil || len(data) != 10 {
		t.Errorf("at limit: %d bytes, err %v", len(data), err)
	}
	if _, err := s.ReadLimited(strings.NewReader("0123456789X")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("over limit err = %v", err)
	}
}

func TestRunGCInMemory(t *testing.T) {
	t.Parallel()

	if err := newTestStore(t, 1<<20).RunGC(0.5); err != nil {
		t.Errorf("RunGC: %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	t.Parallel()

	cfg := &config.ImagesConfig{Path: t.TempDir(), PublicBaseURL: "https://cdn.example.com/img"}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	up, err := s.Put(context.Background(), gifBytes)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(context.Background(), up.ID); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
	if s.MaxBytes() != 5<<20 {
		t.Errorf("default MaxBytes = %d", s.MaxBytes())
	}
	if err := s.RunGC(0.5); err != nil {
		t.Errorf("RunGC: %v", err)
	}
}
