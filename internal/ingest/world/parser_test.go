package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const heroPageHTML = `
<html><body>
  <div class="dskin-poster-inner">
    <img data-src="//act/a20240901/swan.png" src="/placeholder.png"/>
    <div class="dskin-text">
      <div class="dskin-center-text font-title-cn">Swan Princess — ANGELA</div>
    </div>
  </div>
  <div class="dskin-poster-inner">
    <img src="https://cdn.example/classic.png"/>
    <div class="dskin-text">
      <div class="dskin-center-text font-title-cn">Classic</div>
    </div>
  </div>
  <div class="dskin-poster-inner">
    <div class="dskin-text">
      <div class="dskin-center-text font-title-cn">   </div>
    </div>
  </div>
</body></html>`

func TestParseHeroPageSkins(t *testing.T) {
	doc, err := ParseHTML(heroPageHTML)
	require.NoError(t, err)

	skins := ParseHeroPageSkins(doc, "https://world.example")
	require.Len(t, skins, 2)

	// Caption suffix stripped, data-src preferred, leading // collapsed
	// and prefixed with the base URL.
	require.Equal(t, "Swan Princess", skins[0].Name)
	require.Equal(t, "https://world.example/act/a20240901/swan.png", skins[0].Image)
	require.Equal(t, skins[0].Image, skins[0].Cover)

	// Absolute src kept as is when no data-src.
	require.Equal(t, "Classic", skins[1].Name)
	require.Equal(t, "https://cdn.example/classic.png", skins[1].Image)
}

func TestBuildSeriesIndex(t *testing.T) {
	doc := &SkinListDoc{Skins: []SkinSeriesRecord{
		{Name: "Swan Princess", Series: "MAGIC", HeroIDs: "142"},
		{Name: "Shared Skin", Series: "FUTURE ERA", HeroIDs: "101, 501"},
		{Name: "", Series: "IGNORED", HeroIDs: "1"},
	}}

	idx := BuildSeriesIndex(doc)
	require.Equal(t, "MAGIC", idx.Lookup(142, "Swan Princess"))
	require.Equal(t, "FUTURE ERA", idx.Lookup(101, "Shared Skin"))
	require.Equal(t, "FUTURE ERA", idx.Lookup(501, "Shared Skin"))
	require.Empty(t, idx.Lookup(142, "Unknown"))

	require.Empty(t, BuildSeriesIndex(nil).Lookup(1, "x"))
}

func TestNormalizeHero(t *testing.T) {
	hero := NormalizeHero(HeroRecord{
		ID:        "142",
		Name:      " Angela ",
		Title:     "Summoner of Flame",
		Role:      "Mage",
		Region:    "Midgard",
		Icon:      "/heroes/142/icon.png",
		Thumbnail: "https://cdn.example/head.png",
	})
	require.NotNil(t, hero)
	require.Equal(t, 142, hero.HeroID)
	require.Equal(t, "Angela", hero.Name)
	require.Equal(t, "Midgard", hero.WorldLore.Region)
	// Relative media paths get the site prefix; absolute ones are kept.
	require.Equal(t, BaseURL+"/heroes/142/icon.png", hero.Icon)
	require.Equal(t, "https://cdn.example/head.png", hero.Thumbnail)
}

func TestNormalizeHeroBadRecords(t *testing.T) {
	// No name: dropped outright.
	require.Nil(t, NormalizeHero(HeroRecord{ID: "142"}))

	// Unparsable id: kept with id 0 for name-based matching.
	hero := NormalizeHero(HeroRecord{ID: "n/a", Name: "Angela"})
	require.NotNil(t, hero)
	require.Equal(t, 0, hero.HeroID)
}
