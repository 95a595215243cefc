// Package reference serves the read-only lookup tables (skills, industries,
// countries, languages) used by the wizards and resolves the selections the
// wizards store into ids.
package reference

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gigexecs-backend/internal/models"

	"golang.org/x/sync/singleflight"
)

// Source fetches a full reference table, ordered by name.
type Source interface {
	FetchReferences(ctx context.Context, kind models.ReferenceKind) ([]models.EntityReference, error)
}

type cacheEntry struct {
	items     []models.EntityReference
	byID      map[int64]models.EntityReference
	fetchedAt time.Time
}

// Catalog caches reference tables for a fixed lifetime. Concurrent misses for
// the same table share one fetch.
type Catalog struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[models.ReferenceKind]*cacheEntry
	group   singleflight.Group
}

func NewCatalog(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[models.ReferenceKind]*cacheEntry),
	}
}

func (c *Catalog) List(ctx context.Context, kind models.ReferenceKind) ([]models.EntityReference, error) {
	entry, err := c.entry(ctx, kind)
	if err != nil {
		return nil, err
	}
	return entry.items, nil
}

// Search filters a table by a case-insensitive substring of the name.
func (c *Catalog) Search(ctx context.Context, kind models.ReferenceKind, query string) ([]models.EntityReference, error) {
	items, err := c.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items, nil
	}
	out := make([]models.EntityReference, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Catalog) Lookup(ctx context.Context, kind models.ReferenceKind, id int64) (models.EntityReference, bool, error) {
	entry, err := c.entry(ctx, kind)
	if err != nil {
		return models.EntityReference{}, false, err
	}
	ref, ok := entry.byID[id]
	return ref, ok, nil
}

// Invalidate drops every cached table.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[models.ReferenceKind]*cacheEntry)
	c.mu.Unlock()
}

func (c *Catalog) entry(ctx context.Context, kind models.ReferenceKind) (*cacheEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	c.mu.RLock()
	entry, ok := c.entries[kind]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry, nil
	}

	v, err, _ := c.group.Do(string(kind), func() (any, error) {
		items, err := c.source.FetchReferences(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s references: %w", kind, err)
		}
		fresh := &cacheEntry{
			items:     items,
			byID:      make(map[int64]models.EntityReference, len(items)),
			fetchedAt: c.now(),
		}
		for _, item := range items {
			fresh.byID[item.ID] = item
		}
		c.mu.Lock()
		c.entries[kind] = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cacheEntry), nil
}
