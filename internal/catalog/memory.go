// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/pantryrank/internal/models"
)

// MemoryStore is an in-process Store. It backs import dry runs and tests.
// A single mutex serializes writes, so merges are trivially atomic.
type MemoryStore struct {
	mu       sync.RWMutex
	products []models.Product // id order; id == index+1
	events   []models.RatingEvent
	users    map[string]models.User
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	created := *p
	created.ID = int64(len(m.products) + 1)
	created.ReviewCount = 1
	created.CreatedAt = now
	created.UpdatedAt = now
	m.products = append(m.products, created)
	m.appendEvent(created.ID, created.CreatorUserID, created.Supermarket, created.Aggregate, models.RatingEventCreate, now)

	out := created
	return &out, nil
}

func (m *MemoryStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id < 1 || id > int64(len(m.products)) {
		return nil, ProductNotFound(id)
	}
	p := m.products[id-1]
	return &p, nil
}

func (m *MemoryStore) MergeRating(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 1 || id > int64(len(m.products)) {
		return nil, ProductNotFound(id)
	}
	p := &m.products[id-1]
	now := m.now()
	p.Aggregate = MergeAggregate(p.Aggregate, p.ReviewCount, delta.Values())
	p.ReviewCount++
	if delta.Supermarket != "" {
		p.Supermarket = delta.Supermarket
	}
	p.UpdatedAt = now
	m.appendEvent(id, raterUserID, delta.Supermarket, delta.Values(), models.RatingEventMerge, now)

	out := *p
	return &out, nil
}

func (m *MemoryStore) appendEvent(productID int64, rater, supermarket string, v models.Aggregate, kind string, at time.Time) {
	m.events = append(m.events, models.RatingEvent{
		ID:          int64(len(m.events) + 1),
		ProductID:   productID,
		RaterUserID: rater,
		Supermarket: supermarket,
		Aggregate:   v,
		Kind:        kind,
		CreatedAt:   at,
	})
}

func (m *MemoryStore) filter(ctx context.Context, page Page, keep func(*models.Product) bool) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0)
	skipped := 0
	for i := range m.products {
		if !keep(&m.products[i]) {
			continue
		}
		if skipped < page.Offset {
			skipped++
			continue
		}
		if page.Limit > 0 && len(out) >= page.Limit {
			break
		}
		out = append(out, m.products[i])
	}
	return out, nil
}

func (m *MemoryStore) SearchByName(ctx context.Context, fragment string, page Page) ([]models.Product, error) {
	needle := strings.ToLower(fragment)
	return m.filter(ctx, page, func(p *models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (m *MemoryStore) ListAll(ctx context.Context, page Page) ([]models.Product, error) {
	return m.filter(ctx, page, func(*models.Product) bool { return true })
}

func (m *MemoryStore) ListByCategory(ctx context.Context, categoryID int, page Page) ([]models.Product, error) {
	return m.filter(ctx, page, func(p *models.Product) bool { return p.CategoryID == categoryID })
}

func (m *MemoryStore) ListByCreator(ctx context.Context, userID string, page Page) ([]models.Product, error) {
	return m.filter(ctx, page, func(p *models.Product) bool { return p.CreatorUserID == userID })
}

func (m *MemoryStore) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	all, err := m.ListAll(ctx, Page{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ReviewCount > all[j].ReviewCount
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryStore) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range m.products {
		counts[m.products[i].CreatorUserID]++
	}

	out := make([]models.Contributor, 0, len(counts))
	for userID, n := range counts {
		name := userID
		if u, ok := m.users[userID]; ok {
			name = u.DisplayName()
		}
		out = append(out, models.Contributor{UserID: userID, DisplayName: name, Contributions: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contributions != out[j].Contributions {
			return out[i].Contributions > out[j].Contributions
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (m *MemoryStore) ListRatings(ctx context.Context, productID int64, page Page) ([]models.RatingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RatingEvent, 0)
	skipped := 0
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].ProductID != productID {
			continue
		}
		if skipped < page.Offset {
			skipped++
			continue
		}
		if page.Limit > 0 && len(out) >= page.Limit {
			break
		}
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *MemoryStore) UpsertUser(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := *u
	if existing, ok := m.users[u.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.users[u.ID] = stored
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, UserNotFound(id)
	}
	return &u, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
