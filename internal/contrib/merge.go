package contrib

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/herolabs/hokhub/internal/hok"
)

// decodeSnapshot parses the stored dataset document. An empty document
// yields an empty snapshot.
func decodeSnapshot(raw json.RawMessage) (*hok.Snapshot, error) {
	var snap hok.Snapshot
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, err
		}
	}
	if snap.Main == nil {
		snap.Main = map[string]*hok.Hero{}
	}
	return &snap, nil
}

// applyMerge dispatches a validated payload against a snapshot clone.
// It either fully applies or returns an error with the clone discarded;
// partial application never reaches the live dataset.
func applyMerge(snap *hok.Snapshot, t Type, payload interface{}) error {
	switch p := payload.(type) {
	case *SkinPayload:
		return mergeSkin(snap, p)
	case *HeroPayload:
		return mergeHero(snap, p)
	case *SeriesPayload:
		return mergeSeries(snap, p)
	case *CounterPayload:
		return mergeCounter(snap, p)
	case *SkinEditPayload:
		return mergeSkinEdit(snap, p)
	default:
		return fmt.Errorf("unknown payload for type %q", t)
	}
}

// mergeSkin adds a skin to the hero with the payload's id, or updates
// the existing entry when a skin of that name (case-insensitive) is
// already present.
func mergeSkin(snap *hok.Snapshot, p *SkinPayload) error {
	key, hero, ok := snap.FindByID(p.HeroID)
	if !ok {
		return fmt.Errorf("hero %d: %w", p.HeroID, ErrNotFound)
	}

	incoming := p.Skin
	for i := range hero.Skins {
		if strings.EqualFold(hero.Skins[i].Name, incoming.Name) {
			log.Printf("  Updating existing skin %q on %s", hero.Skins[i].Name, key)
			overwriteSkin(&hero.Skins[i], incoming)
			hok.ClassifySkin(&hero.Skins[i])
			return nil
		}
	}

	log.Printf("  Adding skin %q to %s", incoming.Name, key)
	hok.ClassifySkin(&incoming)
	hero.Skins = append(hero.Skins, incoming)
	return nil
}

func overwriteSkin(dst *hok.Skin, src hok.Skin) {
	dst.Name = src.Name
	if src.Cover != "" {
		dst.Cover = src.Cover
	}
	if src.Image != "" {
		dst.Image = src.Image
	}
	if src.Series != "" {
		dst.Series = src.Series
	}
}

// mergeHero inserts a new hero keyed by its uppercased name, or
// shallow-merges over the existing entry.
func mergeHero(snap *hok.Snapshot, p *HeroPayload) error {
	key := hok.HeroKey(p.Name)

	if existing, ok := snap.Main[key]; ok {
		log.Printf("  Hero %s exists, updating", key)
		shallowMergeHero(existing, &p.Hero)
		existing.EnsureDefaults()
		return nil
	}

	log.Printf("  Adding hero %s", key)
	hero := p.Hero
	hero.EnsureDefaults()
	for i := range hero.Skins {
		hok.ClassifySkin(&hero.Skins[i])
	}
	snap.Main[key] = &hero
	return nil
}

// shallowMergeHero copies every non-zero payload field over the
// existing hero, top-level fields only.
func shallowMergeHero(dst, src *hok.Hero) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.HeroID != 0 {
		dst.HeroID = src.HeroID
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.Lane != "" {
		dst.Lane = src.Lane
	}
	if src.Icon != "" {
		dst.Icon = src.Icon
	}
	if src.Banner != "" {
		dst.Banner = src.Banner
	}
	if src.Thumbnail != "" {
		dst.Thumbnail = src.Thumbnail
	}
	if len(src.Skins) > 0 {
		dst.Skins = src.Skins
		for i := range dst.Skins {
			hok.ClassifySkin(&dst.Skins[i])
		}
	}
	if len(src.Abilities) > 0 {
		dst.Abilities = src.Abilities
	}
	if len(src.RecommendedAugments) > 0 {
		dst.RecommendedAugments = src.RecommendedAugments
	}
	if len(src.RecommendedItems) > 0 {
		dst.RecommendedItems = src.RecommendedItems
	}
	if src.BuildTitle != "" {
		dst.BuildTitle = src.BuildTitle
	}
	if len(src.BestPartner) > 0 {
		dst.BestPartner = src.BestPartner
	}
	if len(src.StrongAgainst) > 0 {
		dst.StrongAgainst = src.StrongAgainst
	}
	if len(src.WeakAgainst) > 0 {
		dst.WeakAgainst = src.WeakAgainst
	}
	if src.Statistics != (hok.Stats{}) {
		dst.Statistics = src.Statistics
	}
	if src.WorldLore != (hok.Lore{}) {
		dst.WorldLore = src.WorldLore
	}
}

// mergeSeries relabels every referenced skin. It fails only when no
// referenced skin could be found at all.
func mergeSeries(snap *hok.Snapshot, p *SeriesPayload) error {
	updated := 0
	for _, ref := range p.Skins {
		key, hero, ok := snap.FindByID(ref.HeroID)
		if !ok {
			continue
		}
		for i := range hero.Skins {
			if strings.EqualFold(hero.Skins[i].Name, ref.SkinName) {
				hero.Skins[i].Series = p.SeriesName
				hok.ClassifySkin(&hero.Skins[i])
				updated++
				log.Printf("  Updated %q (%s)", ref.SkinName, key)
			}
		}
	}
	if updated == 0 {
		return fmt.Errorf("series %q matched no skins: %w", p.SeriesName, ErrNotFound)
	}
	log.Printf("  ✓ Series %q: %d skins updated", p.SeriesName, updated)
	return nil
}

// mergeCounter applies a matchup edit, and when bidirectional, the
// inverse edit on the target hero. A missing target only skips the
// inverse half; the primary edit always applies.
func mergeCounter(snap *hok.Snapshot, p *CounterPayload) error {
	hero, ok := snap.Get(p.HeroName)
	if !ok {
		return fmt.Errorf("hero %q: %w", p.HeroName, ErrNotFound)
	}

	target, targetOK := snap.Get(p.TargetHeroName)

	applyRelationEdit(hero, p.Relation, p.TargetHeroName, p, target)

	if p.Bidirectional {
		if !targetOK {
			log.Printf("  ⚠️  target %q missing, skipping inverse edit", p.TargetHeroName)
			return nil
		}
		applyRelationEdit(target, inverseRelation(p.Relation), p.HeroName, p, hero)
	}
	return nil
}

func inverseRelation(rel string) string {
	switch rel {
	case RelationStrongAgainst:
		return RelationWeakAgainst
	case RelationWeakAgainst:
		return RelationStrongAgainst
	default:
		return RelationBestPartner
	}
}

// applyRelationEdit mutates one relation map. counterpart may be nil;
// its thumbnail is only a nicety.
func applyRelationEdit(hero *hok.Hero, rel, counterpartName string, p *CounterPayload, counterpart *hok.Hero) {
	m := relationMapFor(hero, rel)

	if p.Remove {
		for existing := range m {
			if strings.EqualFold(existing, counterpartName) {
				delete(m, existing)
			}
		}
		return
	}

	entry := hok.Relation{
		Name:        counterpartName,
		Thumbnail:   p.Icon,
		Description: p.Note,
	}
	if entry.Thumbnail == "" && counterpart != nil {
		entry.Thumbnail = counterpart.Thumbnail
	}
	m[counterpartName] = entry
}

func relationMapFor(hero *hok.Hero, rel string) map[string]hok.Relation {
	hero.EnsureDefaults()
	switch rel {
	case RelationStrongAgainst:
		return hero.StrongAgainst
	case RelationWeakAgainst:
		return hero.WeakAgainst
	default:
		return hero.BestPartner
	}
}

// mergeSkinEdit updates one existing skin in place.
func mergeSkinEdit(snap *hok.Snapshot, p *SkinEditPayload) error {
	key, hero, ok := snap.FindByID(p.HeroID)
	if !ok {
		return fmt.Errorf("hero %d: %w", p.HeroID, ErrNotFound)
	}

	for i := range hero.Skins {
		if !strings.EqualFold(hero.Skins[i].Name, p.SkinName) {
			continue
		}
		skin := &hero.Skins[i]
		if p.NewName != "" {
			skin.Name = p.NewName
		}
		if p.Cover != "" {
			skin.Cover = p.Cover
		}
		if p.Image != "" {
			skin.Image = p.Image
		}
		if p.Series != "" {
			skin.Series = p.Series
		}
		hok.ClassifySkin(skin)
		log.Printf("  ✓ Edited skin %q on %s", p.SkinName, key)
		return nil
	}

	return fmt.Errorf("skin %q on hero %d: %w", p.SkinName, p.HeroID, ErrNotFound)
}
