package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/herolabs/hokhub/internal/hok"
	"github.com/herolabs/hokhub/internal/ingest/backup"
	"github.com/herolabs/hokhub/internal/ingest/camp"
	"github.com/herolabs/hokhub/internal/ingest/world"
	"github.com/herolabs/hokhub/internal/jobs"
	"github.com/herolabs/hokhub/internal/publisher"
	"github.com/herolabs/hokhub/internal/reconcile"
	"github.com/herolabs/hokhub/internal/service"
)

// Collector coordinates a full scrape-and-reconcile pass across all
// sources. World is authoritative for identity and media, camp for
// analytics, and the skin dump is the fallback skin catalog. Any source
// may fail independently; the run only fails when nothing was fetched.
type Collector struct {
	worldIngester *world.Ingester
	campIngester  *camp.Ingester
	backupPath    string

	heroes    *service.HeroService
	publisher *publisher.RedisStreamPublisher
}

// NewCollector creates a collector. The world ingester needs a local
// browser; when it cannot start, the collector runs without it and the
// dataset carries camp identity instead.
func NewCollector(heroes *service.HeroService, pub *publisher.RedisStreamPublisher, campBaseURL, backupPath string) *Collector {
	worldIngester, err := world.NewIngester()
	if err != nil {
		log.Printf("Warning: Failed to initialize world ingester: %v", err)
	}

	return &Collector{
		worldIngester: worldIngester,
		campIngester:  camp.NewIngester(camp.New(campBaseURL)),
		backupPath:    backupPath,
		heroes:        heroes,
		publisher:     pub,
	}
}

// Close releases resources.
func (c *Collector) Close() {
	if c.worldIngester != nil {
		c.worldIngester.Close()
	}
}

// Run executes one job. Satisfies jobs.Runner.
func (c *Collector) Run(ctx context.Context, jobType jobs.JobType) (*jobs.Result, error) {
	if jobType == jobs.JobTypeStats {
		return c.refreshStats(ctx)
	}
	return c.fullReconcile(ctx)
}

// fullReconcile scrapes every source, reconciles, and swaps the dataset.
func (c *Collector) fullReconcile(ctx context.Context) (*jobs.Result, error) {
	log.Println("Reconciling dataset (world + camp + backup)...")

	sources := c.gatherSources(ctx)
	if len(sources) == 0 {
		return nil, fmt.Errorf("all sources failed - nothing to reconcile")
	}

	snap, err := reconcile.Run(sources)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	if err := c.heroes.ReplaceDataset(ctx, snap); err != nil {
		return nil, err
	}

	c.announce(ctx, "full", len(snap.Main))
	return &jobs.Result{HeroCount: len(snap.Main)}, nil
}

// refreshStats re-fetches camp analytics and patches them into the
// existing dataset without touching identity, media, or skins.
func (c *Collector) refreshStats(ctx context.Context) (*jobs.Result, error) {
	log.Println("Refreshing hero statistics (camp only)...")

	campHeroes, err := c.campIngester.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("camp fetch: %w", err)
	}

	byID := make(map[int]*hok.Hero, len(campHeroes))
	for _, h := range campHeroes {
		byID[h.HeroID] = h
	}

	// The patch runs inside the store's writer lock so it cannot erase
	// a contribution approved while the camp fetch was in flight.
	updated := 0
	err = c.heroes.UpdateSnapshot(ctx, func(snap *hok.Snapshot) error {
		updated = 0
		for _, hero := range snap.Main {
			fresh, ok := byID[hero.HeroID]
			if !ok {
				continue
			}
			hero.Statistics = fresh.Statistics
			hero.BestPartner = fresh.BestPartner
			hero.StrongAgainst = fresh.StrongAgainst
			hero.WeakAgainst = fresh.WeakAgainst
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✓ Stats refreshed for %d heroes", updated)
	c.announce(ctx, "stats", updated)
	return &jobs.Result{HeroCount: updated}, nil
}

// gatherSources fetches every source, skipping the ones that fail.
func (c *Collector) gatherSources(ctx context.Context) []reconcile.Source {
	var sources []reconcile.Source

	if c.worldIngester != nil {
		worldHeroes, err := c.worldIngester.Fetch(ctx)
		if err != nil {
			log.Printf("⚠️  World ingestion failed: %v (continuing without it)", err)
		} else {
			sources = append(sources, reconcile.NewSource(reconcile.SourceWorld, reconcile.PriorityWorld, worldHeroes))
		}
	} else {
		log.Println("⚠️  World ingester unavailable (camp identity will be used)")
	}

	campHeroes, err := c.campIngester.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  Camp ingestion failed: %v", err)
	} else {
		sources = append(sources, reconcile.NewSource(reconcile.SourceCamp, reconcile.PriorityCamp, campHeroes))
	}

	if c.backupPath != "" {
		records, err := backup.LoadFile(c.backupPath)
		if err != nil {
			log.Printf("⚠️  Backup skin dump unavailable: %v", err)
		} else {
			sources = append(sources, reconcile.NewSource(reconcile.SourceBackup, reconcile.PriorityBackup, backup.Normalize(records)))
		}
	}

	return sources
}

func (c *Collector) announce(ctx context.Context, kind string, heroCount int) {
	if c.publisher == nil {
		return
	}
	summary := map[string]interface{}{"kind": kind, "heroes": heroCount}
	if err := c.publisher.PublishReconcileRun(ctx, summary); err != nil {
		log.Printf("⚠️  publishing reconcile event failed: %v", err)
	}
}
