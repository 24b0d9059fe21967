// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/pantryrank/internal/cache"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/metrics"
	"github.com/tomtom215/pantryrank/internal/models"
	"github.com/tomtom215/pantryrank/internal/validation"
)

// MinCandidateNameLength is the shortest name SearchCandidates accepts.
const MinCandidateNameLength = 3

// Options tunes a Service.
type Options struct {
	MergeMaxAttempts     int
	MergeRetryBackoff    time.Duration
	DefaultPageSize      int
	MaxPageSize          int
	TrendingLimit        int
	TopContributorsLimit int
	RankingCacheTTL      time.Duration

	// OperationTimeout bounds store calls whose context has no deadline.
	OperationTimeout time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MergeMaxAttempts:     3,
		MergeRetryBackoff:    time.Millisecond,
		DefaultPageSize:      100,
		MaxPageSize:          1000,
		TrendingLimit:        20,
		TopContributorsLimit: 10,
		RankingCacheTTL:      30 * time.Second,
		OperationTimeout:     30 * time.Second,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.MergeMaxAttempts < 1 {
		o.MergeMaxAttempts = d.MergeMaxAttempts
	}
	if o.MergeRetryBackoff < 0 {
		o.MergeRetryBackoff = 0
	}
	if o.MaxPageSize < 1 {
		o.MaxPageSize = d.MaxPageSize
	}
	if o.DefaultPageSize < 1 || o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = min(d.DefaultPageSize, o.MaxPageSize)
	}
	if o.TrendingLimit < 1 {
		o.TrendingLimit = d.TrendingLimit
	}
	if o.TopContributorsLimit < 1 {
		o.TopContributorsLimit = d.TopContributorsLimit
	}
	if o.OperationTimeout <= 0 {
		o.OperationTimeout = d.OperationTimeout
	}
}

// Service exposes the catalog operations on top of a Store.
type Service struct {
	store    Store
	opts     Options
	rankings *cache.Cache
}

// NewService returns a Service over store. Zero option fields take defaults.
func NewService(store Store, opts Options) *Service {
	opts.fill()
	return &Service{
		store:    store,
		opts:     opts,
		rankings: cache.New(opts.RankingCacheTTL),
	}
}

// Close releases the ranking cache sweeper.
func (s *Service) Close() {
	s.rankings.Close()
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.OperationTimeout)
}

// NormalizeText trims s and converts it to Unicode NFC so that composed and
// decomposed accents compare equal in searches.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Page clamps a requested page to the configured bounds.
func (s *Service) Page(limit, offset int) Page {
	if limit < 1 {
		limit = s.opts.DefaultPageSize
	}
	return Page{Limit: min(limit, s.opts.MaxPageSize), Offset: max(offset, 0)}
}

func (s *Service) rankingLimit(limit, def int) int {
	if limit < 1 {
		return def
	}
	return min(limit, s.opts.MaxPageSize)
}

// SearchCandidates returns every product whose name contains name, ignoring
// case, so a human can pick the product they meant. An empty result means no
// product matches and creating a new one is safe.
func (s *Service) SearchCandidates(ctx context.Context, name string) ([]models.Product, error) {
	name = NormalizeText(name)
	if utf8.RuneCountInString(name) < MinCandidateNameLength {
		return nil, NewValidationError("name",
			fmt.Sprintf("name must be at least %d characters", MinCandidateNameLength))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Every match is a candidate, so read page by page until a short page.
	products := make([]models.Product, 0)
	for offset := 0; ; offset += s.opts.MaxPageSize {
		batch, err := s.store.SearchByName(ctx, name, Page{Limit: s.opts.MaxPageSize, Offset: offset})
		if err != nil {
			return nil, classify("search_candidates", err)
		}
		products = append(products, batch...)
		if len(batch) < s.opts.MaxPageSize {
			return products, nil
		}
	}
}

// CreateProduct adds a product that no existing entry matched. The input's
// values become the initial aggregate with a review count of 1.
func (s *Service) CreateProduct(ctx context.Context, in models.NewProductInput, creatorUserID string) (*models.Product, error) {
	if strings.TrimSpace(creatorUserID) == "" {
		return nil, NewValidationError("creator_user_id", "an authenticated user is required")
	}

	in.ApplyDefaults()
	in.Name = NormalizeText(in.Name)
	in.Brand = NormalizeText(in.Brand)
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, fromRequestValidation(verr)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created, err := s.store.CreateProduct(ctx, &models.Product{
		Name:          in.Name,
		Brand:         in.Brand,
		CategoryID:    in.CategoryID,
		Supermarket:   in.Supermarket,
		ImageURL:      in.ImageURL,
		Aggregate:     in.Aggregate(),
		CreatorUserID: creatorUserID,
	})
	if err != nil {
		return nil, classify("create_product", err)
	}

	s.rankings.Clear()
	metrics.ProductsCreated.Inc()
	logging.Ctx(ctx).Info().
		Int64("product_id", created.ID).
		Int("category_id", created.CategoryID).
		Str("creator", creatorUserID).
		Msg("Product created")
	return created, nil
}

// SubmitRating folds a rating into an existing product. Write conflicts are
// retried up to MergeMaxAttempts times with a doubling backoff.
func (s *Service) SubmitRating(ctx context.Context, productID int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	if strings.TrimSpace(raterUserID) == "" {
		return nil, NewValidationError("rater_user_id", "an authenticated user is required")
	}
	if productID < 1 {
		return nil, ProductNotFound(productID)
	}

	delta.ApplyDefaults()
	if verr := validation.ValidateStruct(&delta); verr != nil {
		return nil, fromRequestValidation(verr)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	backoff := s.opts.MergeRetryBackoff
	for attempt := 1; ; attempt++ {
		updated, err := s.store.MergeRating(ctx, productID, delta, raterUserID)
		if err == nil {
			s.rankings.Clear()
			metrics.RatingsMerged.Inc()
			logging.Ctx(ctx).Info().
				Int64("product_id", productID).
				Int64("review_count", updated.ReviewCount).
				Int("attempt", attempt).
				Msg("Rating merged")
			return updated, nil
		}

		var cerr *ConcurrencyError
		if !errors.As(err, &cerr) {
			return nil, classify("merge_rating", err)
		}
		metrics.MergeConflicts.Inc()

		if attempt >= s.opts.MergeMaxAttempts {
			logging.Ctx(ctx).Warn().
				Int64("product_id", productID).
				Int("attempts", attempt).
				Msg("Rating merge gave up after repeated conflicts")
			return nil, &ConcurrencyError{ProductID: productID, Attempts: attempt, Err: cerr.Err}
		}

		metrics.MergeRetries.Inc()
		logging.Ctx(ctx).Debug().
			Int64("product_id", productID).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Rating merge conflict, retrying")

		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, classify("merge_rating", err)
		}
		backoff *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id < 1 {
		return nil, ProductNotFound(id)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.store.GetProduct(ctx, id)
	return p, classify("get_product", err)
}

// ListAll returns a page of the catalog in id order.
func (s *Service) ListAll(ctx context.Context, page Page) ([]models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.store.ListAll(ctx, s.Page(page.Limit, page.Offset))
	return products, classify("list_all", err)
}

// ListByCategory returns a page of products in one category.
func (s *Service) ListByCategory(ctx context.Context, categoryID int, page Page) ([]models.Product, error) {
	if !models.IsValidCategory(categoryID) {
		return nil, NewValidationError("category_id", "category_id must be a known category")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.store.ListByCategory(ctx, categoryID, s.Page(page.Limit, page.Offset))
	return products, classify("list_by_category", err)
}

// SearchByName returns products whose name contains q, ignoring case.
func (s *Service) SearchByName(ctx context.Context, q string, page Page) ([]models.Product, error) {
	q = NormalizeText(q)
	if q == "" {
		return nil, NewValidationError("q", "q is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.store.SearchByName(ctx, q, s.Page(page.Limit, page.Offset))
	return products, classify("search_by_name", err)
}

// ListByCreator returns the products a user created.
func (s *Service) ListByCreator(ctx context.Context, userID string, page Page) ([]models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.store.ListByCreator(ctx, userID, s.Page(page.Limit, page.Offset))
	return products, classify("list_by_creator", err)
}

// ListRatings returns a product's ledger, newest first.
func (s *Service) ListRatings(ctx context.Context, productID int64, page Page) ([]models.RatingEvent, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.store.ListRatings(ctx, productID, s.Page(page.Limit, page.Offset))
	return events, classify("list_ratings", err)
}

// ListTrending returns the most reviewed products. limit < 1 selects the
// default.
func (s *Service) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	limit = s.rankingLimit(limit, s.opts.TrendingLimit)
	key := cache.GenerateKey("trending", limit)

	if v, ok := s.rankings.Get(key); ok {
		metrics.RecordRankingLookup("trending", true)
		return slices.Clone(v.([]models.Product)), nil
	}
	metrics.RecordRankingLookup("trending", false)

	gen := s.rankings.Generation()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.store.ListTrending(ctx, limit)
	if err != nil {
		return nil, classify("list_trending", err)
	}
	s.rankings.SetIfGeneration(key, slices.Clone(products), gen)
	return products, nil
}

// TopContributors ranks users by how many products they created. limit < 1
// selects the default.
func (s *Service) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	limit = s.rankingLimit(limit, s.opts.TopContributorsLimit)
	key := cache.GenerateKey("top_contributors", limit)

	if v, ok := s.rankings.Get(key); ok {
		metrics.RecordRankingLookup("top_contributors", true)
		return slices.Clone(v.([]models.Contributor)), nil
	}
	metrics.RecordRankingLookup("top_contributors", false)

	gen := s.rankings.Generation()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	contributors, err := s.store.TopContributors(ctx, limit)
	if err != nil {
		return nil, classify("top_contributors", err)
	}
	s.rankings.SetIfGeneration(key, slices.Clone(contributors), gen)
	return contributors, nil
}

// UpsertUser records the profile of an authenticated user. When the display
// name changes the contributor ranking is refreshed on the next read.
func (s *Service) UpsertUser(ctx context.Context, u *models.User) error {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return NewValidationError("id", "user id is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	renamed := true
	if prev, err := s.store.GetUser(ctx, u.ID); err == nil {
		renamed = prev.DisplayName() != u.DisplayName()
	}
	if err := s.store.UpsertUser(ctx, u); err != nil {
		return classify("upsert_user", err)
	}
	if renamed {
		s.rankings.Clear()
	}
	return nil
}

// GetUser returns a stored user profile.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.store.GetUser(ctx, id)
	return u, classify("get_user", err)
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return classify("ping", s.store.Ping(ctx))
}
