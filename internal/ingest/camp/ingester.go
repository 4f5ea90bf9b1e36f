package camp

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/herolabs/hokhub/internal/hok"
)

// Ingester pulls the full roster from the analytics API. Per-hero detail
// endpoints fail independently; a hero keeps defaults for whatever its
// endpoints could not provide.
type Ingester struct {
	client *Client
}

// NewIngester creates an analytics ingester.
func NewIngester(client *Client) *Ingester {
	if client == nil {
		client = NewClient()
	}
	return &Ingester{client: client}
}

// Fetch returns every hero the analytics API knows, normalized.
func (i *Ingester) Fetch(ctx context.Context) ([]*hok.Hero, error) {
	roster, err := i.client.FetchHeroList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	log.Printf("✓ Camp: %d heroes listed", len(roster))

	var heroes []*hok.Hero
	for _, entry := range roster {
		hero, err := i.FetchHero(ctx, entry.HeroID)
		if err != nil {
			log.Printf("⚠️  Camp: hero %d (%s) failed: %v", entry.HeroID, entry.HeroName, err)
			continue
		}
		if hero == nil {
			log.Printf("⚠️  Camp: hero %d (%s) has no detail record", entry.HeroID, entry.HeroName)
			continue
		}
		heroes = append(heroes, hero)
	}

	log.Printf("✓ Camp: normalized %d heroes", len(heroes))
	return heroes, nil
}

// FetchHero assembles one hero from every detail endpoint. Only the
// info endpoint is required.
func (i *Ingester) FetchHero(ctx context.Context, heroID int) (*hok.Hero, error) {
	info, err := i.client.FetchHeroInfo(ctx, heroID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	if strings.TrimSpace(info.HeroName) == "" {
		log.Printf("⚠️  Camp: dropping hero %d - no display name", heroID)
		return nil, nil
	}

	stats, err := i.client.FetchHeroStats(ctx, heroID)
	if err != nil {
		log.Printf("  ⚠️  stats unavailable for %s: %v", info.HeroName, err)
	}
	skills, err := i.client.FetchSkills(ctx, heroID)
	if err != nil {
		log.Printf("  ⚠️  skills unavailable for %s: %v", info.HeroName, err)
	}
	equip, err := i.client.FetchEquip(ctx, heroID)
	if err != nil {
		log.Printf("  ⚠️  equipment unavailable for %s: %v", info.HeroName, err)
	}
	runes, err := i.client.FetchRunes(ctx, heroID)
	if err != nil {
		log.Printf("  ⚠️  arcana unavailable for %s: %v", info.HeroName, err)
	}
	relations, err := i.client.FetchRelations(ctx, heroID)
	if err != nil {
		log.Printf("  ⚠️  relations unavailable for %s: %v", info.HeroName, err)
	}

	return NormalizeHero(info, stats, skills, equip, runes, relations), nil
}

// NormalizeHero maps the raw endpoint payloads into the canonical shape.
func NormalizeHero(info *HeroInfo, stats *HeroStats, skills []SkillEntry, equip *EquipData, runes []RuneEntry, relations *RelationData) *hok.Hero {
	hero := &hok.Hero{
		Title:     info.HeroName,
		Name:      info.HeroName,
		HeroID:    info.HeroID,
		Role:      info.TypeName,
		Lane:      info.LaneName,
		Icon:      info.Icon,
		Banner:    info.Banner,
		Thumbnail: info.Head,

		SurvivalPct:   FormatPercentage(info.SurvivalAbility),
		AttackPct:     FormatPercentage(info.AttackDamage),
		AbilityPct:    FormatPercentage(info.SkillEffect),
		DifficultyPct: FormatPercentage(info.Difficulty),

		Statistics: FormatStats(stats),
		WorldLore: hok.Lore{
			Region:   info.Region,
			Identity: info.Identity,
			Energy:   info.Energy,
		},
	}
	if hero.Banner == "" {
		hero.Banner = info.Icon
	}
	if hero.Thumbnail == "" {
		hero.Thumbnail = info.Icon
	}

	for _, s := range skills {
		hero.Abilities = append(hero.Abilities, hok.Ability{
			Name:        s.Name,
			Cooldown:    ParseProgression(s.CD),
			Cost:        ParseProgression(s.Consume),
			Description: s.Desc,
			Icon:        s.Icon,
		})
	}

	if equip != nil {
		hero.BuildTitle = equip.BuildTitle
		for _, e := range equip.EquipList {
			hero.RecommendedItems = append(hero.RecommendedItems, hok.Item{
				ID:          e.ID,
				Name:        e.Name,
				Icon:        e.Icon,
				Description: e.Desc,
				Price:       e.Price,
				IsCore:      e.IsCore == 1,
			})
		}
	}
	if hero.BuildTitle == "" {
		hero.BuildTitle = "Recommended"
	}

	for _, r := range runes {
		hero.RecommendedAugments = append(hero.RecommendedAugments, hok.Augment{
			ID:          r.ID,
			Name:        r.Name,
			Icon:        r.Icon,
			Description: r.Desc,
		})
	}

	if relations != nil {
		hero.BestPartner = relationMap(relations.BestPartner)
		hero.StrongAgainst = relationMap(relations.WinOdds)
		hero.WeakAgainst = relationMap(relations.WeakOdds)
	}

	hero.EnsureDefaults()
	return hero
}

func relationMap(entries []RelationEntry) map[string]hok.Relation {
	out := map[string]hok.Relation{}
	for _, e := range entries {
		name := strings.TrimSpace(e.HeroName)
		if name == "" {
			continue
		}
		out[name] = hok.Relation{
			Name:        name,
			Thumbnail:   e.Icon,
			Description: e.Tips,
		}
	}
	return out
}

// FormatStats renders rates as "52.31%" strings. A missing stats record
// falls back to zeroes with the lowest tier label.
func FormatStats(stats *HeroStats) hok.Stats {
	if stats == nil {
		return hok.Stats{WinRate: "0%", PickRate: "0%", BanRate: "0%", Tier: "C"}
	}
	tier := stats.StrengthLabel
	if tier == "" {
		tier = "C"
	}
	return hok.Stats{
		WinRate:  fmt.Sprintf("%.2f%%", stats.WinRate*100),
		PickRate: fmt.Sprintf("%.2f%%", stats.AppearRate*100),
		BanRate:  fmt.Sprintf("%.2f%%", stats.BanRate*100),
		Tier:     tier,
	}
}

// ParseProgression splits a per-level progression string ("10/9/8")
// into numbers. Unparsable input yields [0].
func ParseProgression(raw string) []float64 {
	if strings.TrimSpace(raw) == "" {
		return []float64{0}
	}
	parts := strings.Split(raw, "/")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

// FormatPercentage renders a 0..1 fraction as a whole percent ("85%").
func FormatPercentage(v float64) string {
	if v <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}
