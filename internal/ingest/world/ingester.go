package world

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/herolabs/hokhub/internal/hok"
)

// Ingester drives a full world-site pass: hero list, skin-series index,
// then one rendered page per hero for the skin gallery.
type Ingester struct {
	client *Client
}

// NewIngester creates a world-site ingester.
func NewIngester() (*Ingester, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	return &Ingester{client: client}, nil
}

// Close releases the browser.
func (i *Ingester) Close() {
	i.client.Close()
}

// Fetch returns every hero the world site knows, normalized. Records
// without a display name are dropped (nothing downstream can join them
// safely); records with an unparsable id keep id 0 and rely on the
// name-fallback match.
func (i *Ingester) Fetch(ctx context.Context) ([]*hok.Hero, error) {
	listDoc, err := i.client.FetchHeroList(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ World: %d heroes listed", len(listDoc.Heroes))

	skinDoc, err := i.client.FetchSkinList(ctx)
	if err != nil {
		log.Printf("⚠️  World: skin series unavailable: %v (skins will carry no series)", err)
		skinDoc = &SkinListDoc{}
	}
	seriesIndex := BuildSeriesIndex(skinDoc)

	var heroes []*hok.Hero
	for _, rec := range listDoc.Heroes {
		hero := NormalizeHero(rec)
		if hero == nil {
			continue
		}

		if hero.HeroID != 0 {
			html, err := i.client.FetchHeroPage(ctx, hero.HeroID)
			if err != nil {
				log.Printf("⚠️  World: hero page %d (%s) failed: %v", hero.HeroID, hero.Name, err)
			} else if doc, err := ParseHTML(html); err == nil {
				hero.Skins = ParseHeroPageSkins(doc, i.client.baseURL)
			}
		}
		for s := range hero.Skins {
			hero.Skins[s].Series = seriesIndex.Lookup(hero.HeroID, hero.Skins[s].Name)
		}

		heroes = append(heroes, hero)
	}

	log.Printf("✓ World: normalized %d heroes", len(heroes))
	return heroes, nil
}

// NormalizeHero maps a raw list record into the canonical shape. Returns
// nil for records with no usable display name.
func NormalizeHero(rec HeroRecord) *hok.Hero {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		log.Printf("⚠️  World: dropping hero record %q - no display name", rec.ID)
		return nil
	}

	heroID, err := strconv.Atoi(strings.TrimSpace(rec.ID))
	if err != nil {
		log.Printf("⚠️  World: hero %q has unparsable id %q, matching by name only", name, rec.ID)
		heroID = 0
	}

	return &hok.Hero{
		Title:     rec.Title,
		Name:      name,
		HeroID:    heroID,
		Role:      rec.Role,
		Icon:      mediaURL(rec.Icon),
		Banner:    mediaURL(rec.Banner),
		Thumbnail: mediaURL(rec.Thumbnail),
		WorldLore: hok.Lore{Region: rec.Region},
	}
}

func mediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return BaseURL + path
}
