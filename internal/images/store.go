// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package images

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/metrics"
	"github.com/tomtom215/pantryrank/internal/models"
)

const (
	metaPrefix = "meta:"
	blobPrefix = "blob:"

	// idLength is the hex length of a truncated 128 bit digest.
	idLength = 32
)

// Errors returned by the store.
var (
	ErrNotFound        = errors.New("image not found")
	ErrEmpty           = errors.New("image is empty")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrInvalidID       = errors.New("invalid image id")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Meta describes a stored image.
type Meta struct {
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image is a stored image with its bytes.
type Image struct {
	ID string
	Meta
	Data []byte
}

// Store is a Badger-backed image store.
type Store struct {
	db       *badger.DB
	maxBytes int64
	baseURL  string
}

// Open opens the store described by cfg.
func Open(cfg *config.ImagesConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = true
		opts.ValueLogFileSize = 64 << 20
	}
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for images: %w", err)
	}

	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Store{
		db:       db,
		maxBytes: maxBytes,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MaxBytes is the largest accepted upload.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// URL returns the public URL of image id.
func (s *Store) URL(id string) string {
	return s.baseURL + "/" + id
}

// ContentID returns the id of data.
func ContentID(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:idLength/2])
}

// ValidID reports whether id has the form produced by ContentID.
func ValidID(id string) bool {
	if len(id) != idLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// ReadLimited reads r up to the upload limit.
func (s *Store) ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Put stores data and returns its upload descriptor. Storing bytes that are
// already present is a no-op returning the existing id.
func (s *Store) Put(ctx context.Context, data []byte) (*models.ImageUpload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	id := ContentID(data)
	meta, err := json.Marshal(Meta{ContentType: contentType, Size: len(data), CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshal image metadata: %w", err)
	}

	stored := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(metaPrefix + id))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set([]byte(blobPrefix+id), data); err != nil {
			return err
		}
		stored = true
		return txn.Set([]byte(metaPrefix+id), meta)
	})
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if stored {
		metrics.RecordImageStored(len(data))
		logging.Ctx(ctx).Debug().Str("image_id", id).Int("size", len(data)).Str("content_type", contentType).Msg("Stored image")
	}

	return &models.ImageUpload{
		ID:          id,
		ImageURL:    s.URL(id),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

// Get returns the image with id.
func (s *Store) Get(ctx context.Context, id string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	img := &Image{ID: id}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &img.Meta)
		}); err != nil {
			return fmt.Errorf("decode image metadata: %w", err)
		}

		blob, err := txn.Get([]byte(blobPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		img.Data, err = blob.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get image %s: %w", id, err)
	}
	return img, nil
}

// RunGC rewrites value log files until Badger reports nothing to reclaim.
func (s *Store) RunGC(discardRatio float64) error {
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// badgerLogger forwards Badger warnings and errors to the application log.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
