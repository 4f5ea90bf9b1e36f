package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/herolabs/hokhub/internal/ingest"
	"github.com/herolabs/hokhub/internal/ingest/camp"
	"github.com/herolabs/hokhub/internal/jobs"
	"github.com/herolabs/hokhub/internal/service"
	"github.com/herolabs/hokhub/internal/store"
)

const (
	appName    = "hokhub-reconcile"
	appVersion = "1.0.0"
)

// One-shot reconcile run for cron jobs and local dataset rebuilds. No
// Redis, no database; writes straight to the document store.
func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		dataDir    = flag.String("data", getEnv("DATA_DIR", "./data"), "Document store directory")
		campBase   = flag.String("camp-url", getEnv("CAMP_API_BASE", camp.BaseURL), "Analytics API base URL")
		backupPath = flag.String("backup", getEnv("BACKUP_SKINS_PATH", ""), "Backup skin dump file (optional)")
		statsOnly  = flag.Bool("stats-only", false, "Refresh analytics only, keep identity and skins")
		timeout    = flag.Duration("timeout", 30*time.Minute, "Overall run timeout")
	)

	flag.Parse()

	docs, err := store.NewDocumentStore(*dataDir)
	if err != nil {
		log.Fatalf("open document store: %v", err)
	}

	heroService := service.NewHeroService(docs, nil)

	collector := ingest.NewCollector(heroService, nil, *campBase, *backupPath)
	defer collector.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	jobType := jobs.JobTypeFull
	if *statsOnly {
		jobType = jobs.JobTypeStats
	}

	result, err := collector.Run(ctx, jobType)
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}

	log.Printf("✓ Reconcile completed: %d heroes", result.HeroCount)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
