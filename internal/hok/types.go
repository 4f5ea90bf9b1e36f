package hok

import (
	"strings"
)

// Snapshot is the canonical merged dataset: one entry per hero, keyed by
// display name exactly as it appears in the "main" document.
type Snapshot struct {
	Main map[string]*Hero `json:"main"`
}

// NewSnapshot returns an empty snapshot ready for inserts.
func NewSnapshot() *Snapshot {
	return &Snapshot{Main: map[string]*Hero{}}
}

// Hero is the merged representation of a single hero across all sources.
type Hero struct {
	Title     string `json:"title"`
	Name      string `json:"name"`
	HeroID    int    `json:"heroId"`
	Role      string `json:"role"`
	Lane      string `json:"lane"`
	Icon      string `json:"icon"`
	Banner    string `json:"banner"`
	Thumbnail string `json:"thumbnail"`

	Skins               []Skin    `json:"skins"`
	Abilities           []Ability `json:"skill"`
	RecommendedAugments []Augment `json:"arcana"`
	RecommendedItems    []Item    `json:"recommendedEquipment"`
	BuildTitle          string    `json:"buildTitle"`

	SurvivalPct   string `json:"survivalPercentage"`
	AttackPct     string `json:"attackPercentage"`
	AbilityPct    string `json:"abilityPercentage"`
	DifficultyPct string `json:"difficultyPercentage"`

	BestPartner   map[string]Relation `json:"bestPartners"`
	StrongAgainst map[string]Relation `json:"suppressingHeroes"`
	WeakAgainst   map[string]Relation `json:"suppressedHeroes"`

	Statistics Stats `json:"stats"`
	WorldLore  Lore  `json:"world"`
}

// Skin carries media plus the tier classification applied during merge.
type Skin struct {
	Name      string     `json:"skinName"`
	Cover     string     `json:"skinCover,omitempty"`
	Image     string     `json:"skinImage,omitempty"`
	Series    string     `json:"skinSeries"`
	Tier      string     `json:"tier,omitempty"`
	TierName  string     `json:"tierName,omitempty"`
	TierColor string     `json:"tierColor,omitempty"`
	Collab    *CollabTag `json:"collab,omitempty"`
	Tag       string     `json:"tag,omitempty"`
}

// Ability is one entry of a hero's skill list. Cooldown and Cost hold the
// per-level progression (e.g. "10/9/8" becomes [10, 9, 8]).
type Ability struct {
	Name        string    `json:"skillName"`
	Cooldown    []float64 `json:"cooldown"`
	Cost        []float64 `json:"cost"`
	Description string    `json:"skillDesc"`
	Icon        string    `json:"skillImg"`
}

// Item is a recommended equipment entry.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	IsCore      bool   `json:"isCore"`
}

// Augment is a recommended arcana (rune) entry.
type Augment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Relation describes a counterpart hero in a matchup or synergy map,
// keyed in the parent map by the counterpart's display name.
type Relation struct {
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// StatUnavailable is the sentinel used when no analytics source covered
// the hero. Consumers render it verbatim.
const StatUnavailable = "N/A"

// Stats holds formatted ranked statistics ("52.31%" strings, tier label).
type Stats struct {
	WinRate  string `json:"winRate"`
	PickRate string `json:"pickRate"`
	BanRate  string `json:"banRate"`
	Tier     string `json:"tier"`
}

// UnavailableStats returns the sentinel block for heroes missing from the
// analytics source.
func UnavailableStats() Stats {
	return Stats{
		WinRate:  StatUnavailable,
		PickRate: StatUnavailable,
		BanRate:  StatUnavailable,
		Tier:     StatUnavailable,
	}
}

// Lore is the world-building block (region from the world site, identity
// and energy from the analytics source when present).
type Lore struct {
	Region   string `json:"region"`
	Identity string `json:"identity,omitempty"`
	Energy   string `json:"energy,omitempty"`
}

// HeroKey normalizes a display name into the snapshot map key.
func HeroKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// EnsureDefaults replaces nil collections with empty ones and fills the
// stats sentinel, so serialized heroes always carry every key.
func (h *Hero) EnsureDefaults() {
	if h.Skins == nil {
		h.Skins = []Skin{}
	}
	if h.Abilities == nil {
		h.Abilities = []Ability{}
	}
	if h.RecommendedAugments == nil {
		h.RecommendedAugments = []Augment{}
	}
	if h.RecommendedItems == nil {
		h.RecommendedItems = []Item{}
	}
	if h.BestPartner == nil {
		h.BestPartner = map[string]Relation{}
	}
	if h.StrongAgainst == nil {
		h.StrongAgainst = map[string]Relation{}
	}
	if h.WeakAgainst == nil {
		h.WeakAgainst = map[string]Relation{}
	}
	if h.Statistics == (Stats{}) {
		h.Statistics = UnavailableStats()
	}
	if h.SurvivalPct == "" {
		h.SurvivalPct = "0%"
	}
	if h.AttackPct == "" {
		h.AttackPct = "0%"
	}
	if h.AbilityPct == "" {
		h.AbilityPct = "0%"
	}
	if h.DifficultyPct == "" {
		h.DifficultyPct = "0%"
	}
}

// Get looks a hero up by display name, case-insensitively.
func (s *Snapshot) Get(name string) (*Hero, bool) {
	if s == nil || s.Main == nil {
		return nil, false
	}
	if h, ok := s.Main[name]; ok {
		return h, true
	}
	want := HeroKey(name)
	for key, h := range s.Main {
		if HeroKey(key) == want {
			return h, true
		}
	}
	return nil, false
}

// FindByID scans for a hero by numeric id. Returns the map key and hero.
func (s *Snapshot) FindByID(heroID int) (string, *Hero, bool) {
	if s == nil {
		return "", nil, false
	}
	for key, h := range s.Main {
		if h.HeroID == heroID {
			return key, h, true
		}
	}
	return "", nil, false
}
