package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/herolabs/hokhub/internal/cache"
	"github.com/herolabs/hokhub/internal/contrib"
	"github.com/herolabs/hokhub/internal/hok"
	"github.com/herolabs/hokhub/internal/store"
)

// HeroService serves the merged dataset. Reads go through the redis
// cache; the document store is the source of truth.
type HeroService struct {
	docs  *store.DocumentStore
	cache *cache.RedisCache
}

// NewHeroService creates a hero service. cache may be nil, which
// disables caching.
func NewHeroService(docs *store.DocumentStore, redisCache *cache.RedisCache) *HeroService {
	return &HeroService{docs: docs, cache: redisCache}
}

// GetDatasetDoc returns the merged dataset as raw JSON, from cache when
// warm.
func (s *HeroService) GetDatasetDoc(ctx context.Context) (json.RawMessage, error) {
	if s.cache != nil {
		if doc, err := s.cache.GetSnapshot(ctx); err != nil {
			log.Printf("⚠️  snapshot cache read failed: %v", err)
		} else if doc != "" {
			return json.RawMessage(doc), nil
		}
	}

	raw, err := s.docs.LoadSnapshotDoc(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	if raw == nil {
		raw = json.RawMessage(`{"main":{}}`)
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, string(raw)); err != nil {
			log.Printf("⚠️  snapshot cache write failed: %v", err)
		}
	}
	return raw, nil
}

// GetSnapshot returns the parsed merged dataset.
func (s *HeroService) GetSnapshot(ctx context.Context) (*hok.Snapshot, error) {
	raw, err := s.GetDatasetDoc(ctx)
	if err != nil {
		return nil, err
	}
	var snap hok.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if snap.Main == nil {
		snap.Main = map[string]*hok.Hero{}
	}
	return &snap, nil
}

// GetHero finds one hero by display name, case-insensitively.
func (s *HeroService) GetHero(ctx context.Context, name string) (*hok.Hero, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	hero, ok := snap.Get(name)
	if !ok {
		return nil, fmt.Errorf("hero %q: %w", name, contrib.ErrNotFound)
	}
	return hero, nil
}

// SearchHeroes returns heroes whose name contains the query,
// case-insensitively, sorted by name.
func (s *HeroService) SearchHeroes(ctx context.Context, query string) ([]*hok.Hero, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var matches []*hok.Hero
	for _, hero := range snap.Main {
		if q == "" || strings.Contains(strings.ToLower(hero.Name), q) {
			matches = append(matches, hero)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// ReplaceDataset swaps in a freshly reconciled snapshot and drops the
// cache.
func (s *HeroService) ReplaceDataset(ctx context.Context, snap *hok.Snapshot) error {
	doc, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := s.docs.SaveSnapshotDoc(ctx, doc); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	s.InvalidateCache(ctx)
	return nil
}

// UpdateSnapshot applies fn to the stored dataset inside the store's
// single-writer critical section, so a patch can never erase a
// contribution merge that lands while it runs. fn sees the document as
// persisted, not the cached copy.
func (s *HeroService) UpdateSnapshot(ctx context.Context, fn func(snap *hok.Snapshot) error) error {
	err := s.docs.UpdateSnapshotDoc(ctx, func(raw json.RawMessage) (json.RawMessage, error) {
		var snap hok.Snapshot
		if raw != nil {
			if err := json.Unmarshal(raw, &snap); err != nil {
				return nil, fmt.Errorf("parsing dataset: %w", err)
			}
		}
		if snap.Main == nil {
			snap.Main = map[string]*hok.Hero{}
		}
		if err := fn(&snap); err != nil {
			return nil, err
		}
		return json.MarshalIndent(&snap, "", "  ")
	})
	if err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

// InvalidateCache drops the cached dataset (after approvals and
// reconcile runs).
func (s *HeroService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSnapshot(ctx); err != nil {
		log.Printf("⚠️  snapshot cache invalidation failed: %v", err)
	}
}

// ContributionSubmitted satisfies contrib.Notifier. Submissions do not
// touch the dataset, so the cache stays.
func (s *HeroService) ContributionSubmitted(ctx context.Context, c *contrib.Contribution) {}

// ContributionResolved drops the cached dataset, since an approval
// rewrites the stored document underneath it.
func (s *HeroService) ContributionResolved(ctx context.Context, c *contrib.Contribution) {
	s.InvalidateCache(ctx)
}
