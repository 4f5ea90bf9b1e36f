package reconcile

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/herolabs/hokhub/internal/hok"
)

// Engine merges matched groups into canonical heroes. It is a pure
// transformation over its inputs: partials are never mutated, and the
// same inputs always produce the same snapshot.
type Engine struct {
	metrics *Metrics
}

// Metrics tracks merge statistics for the last run.
type Metrics struct {
	HeroesMerged   int
	Singletons     int
	NameConflicts  int
	StatsDefaulted int
	SkinsFromWorld int
	SkinsFromOther int
	LastRun        time.Time
}

// NewEngine creates a merge engine.
func NewEngine() *Engine {
	return &Engine{metrics: &Metrics{LastRun: time.Now()}}
}

// GetMetrics returns the current merge metrics.
func (e *Engine) GetMetrics() *Metrics {
	return e.metrics
}

// ResetMetrics clears all metrics.
func (e *Engine) ResetMetrics() {
	e.metrics = &Metrics{LastRun: time.Now()}
}

// Run matches and merges all sources into a snapshot. This is the batch
// entry point used by the CLI and the scheduler.
func Run(sources []Source) (*hok.Snapshot, error) {
	engine := NewEngine()
	matcher := NewMatcher()
	return engine.MergeAll(matcher.Match(sources))
}

// MergeAll merges every group into a snapshot keyed by display name.
func (e *Engine) MergeAll(groups []*MatchGroup) (*hok.Snapshot, error) {
	snap := hok.NewSnapshot()
	e.metrics.LastRun = time.Now()

	for _, g := range groups {
		hero, err := e.MergeGroup(g)
		if err != nil {
			return nil, fmt.Errorf("merge hero %d (%s): %w", g.HeroID, g.Name, err)
		}
		if hero == nil {
			continue
		}
		snap.Main[hero.Name] = hero
	}

	log.Printf("✓ Reconciled %d heroes (%d singletons, %d name conflicts, %d stats defaulted)",
		e.metrics.HeroesMerged, e.metrics.Singletons, e.metrics.NameConflicts, e.metrics.StatsDefaulted)

	return snap, nil
}

// MergeGroup reconciles one hero from every source that saw it.
func (e *Engine) MergeGroup(g *MatchGroup) (*hok.Hero, error) {
	if len(g.Records) == 0 {
		return nil, fmt.Errorf("empty match group")
	}
	if g.Name == "" {
		// Nothing safe to key the merged hero by.
		log.Printf("⚠️  hero %d: no source provided a display name, dropping", g.HeroID)
		return nil, nil
	}

	e.metrics.HeroesMerged++
	if len(g.Records) == 1 {
		e.metrics.Singletons++
	}

	merged := &hok.Hero{HeroID: g.HeroID, Name: g.Name}

	var world, camp *hok.Hero
	for _, r := range g.Records {
		switch r.Source {
		case SourceWorld:
			if world == nil {
				world = r.Hero
			}
		case SourceCamp:
			if camp == nil {
				camp = r.Hero
			}
		}
	}

	// Identity and media: world wins, any non-empty value is the fallback.
	for _, r := range g.Records {
		h := r.Hero
		if h.Name != "" && !strings.EqualFold(h.Name, g.Name) {
			e.metrics.NameConflicts++
		}
		pick(&merged.Title, h.Title)
		pick(&merged.Role, h.Role)
		pick(&merged.Lane, h.Lane)
		pick(&merged.Icon, h.Icon)
		pick(&merged.Banner, h.Banner)
		pick(&merged.Thumbnail, h.Thumbnail)
	}
	if merged.HeroID == 0 {
		for _, r := range g.Records {
			if r.HeroID != 0 {
				merged.HeroID = r.HeroID
				break
			}
		}
	}

	// Skins travel wholesale from the most complete skin source. They are
	// never field-merged across sources: mixing entries would pair covers
	// and images from different catalogs.
	if best := bestSkinRecord(g.Records); best != nil {
		merged.Skins = make([]hok.Skin, len(best.Hero.Skins))
		copy(merged.Skins, best.Hero.Skins)
		if best.Source == SourceWorld {
			e.metrics.SkinsFromWorld++
		} else {
			e.metrics.SkinsFromOther++
		}
	}
	for i := range merged.Skins {
		hok.ClassifySkin(&merged.Skins[i])
	}

	// Analytics travel wholesale from camp.
	if camp != nil {
		merged.Abilities = camp.Abilities
		merged.RecommendedAugments = camp.RecommendedAugments
		merged.RecommendedItems = camp.RecommendedItems
		merged.BuildTitle = camp.BuildTitle
		merged.BestPartner = camp.BestPartner
		merged.StrongAgainst = camp.StrongAgainst
		merged.WeakAgainst = camp.WeakAgainst
		merged.SurvivalPct = camp.SurvivalPct
		merged.AttackPct = camp.AttackPct
		merged.AbilityPct = camp.AbilityPct
		merged.DifficultyPct = camp.DifficultyPct
		merged.Statistics = camp.Statistics
	}
	if merged.Statistics == (hok.Stats{}) {
		merged.Statistics = hok.UnavailableStats()
		e.metrics.StatsDefaulted++
	}

	// World lore: region from the world site, identity and energy from
	// camp when it has them.
	if world != nil {
		merged.WorldLore.Region = world.WorldLore.Region
	}
	if camp != nil {
		if merged.WorldLore.Region == "" {
			merged.WorldLore.Region = camp.WorldLore.Region
		}
		merged.WorldLore.Identity = camp.WorldLore.Identity
		merged.WorldLore.Energy = camp.WorldLore.Energy
	}

	merged.EnsureDefaults()
	return merged, nil
}

// bestSkinRecord picks the record whose skin list is most complete:
// most entries, then most entries with a series label, then source
// priority.
func bestSkinRecord(records []*Partial) *Partial {
	var best *Partial
	bestCount, bestSeries := -1, -1
	for _, r := range records {
		count := len(r.Hero.Skins)
		if count == 0 {
			continue
		}
		series := 0
		for _, s := range r.Hero.Skins {
			if s.Series != "" {
				series++
			}
		}
		// Records arrive sorted by priority, so strict greater-than keeps
		// the higher-priority source on ties.
		if count > bestCount || (count == bestCount && series > bestSeries) {
			best, bestCount, bestSeries = r, count, series
		}
	}
	return best
}

func pick(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
