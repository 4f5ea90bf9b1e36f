package camp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herolabs/hokhub/internal/hok"
)

func TestParseProgression(t *testing.T) {
	tests := []struct {
		raw  string
		want []float64
	}{
		{"10/9/8", []float64{10, 9, 8}},
		{"7.5/7/6.5", []float64{7.5, 7, 6.5}},
		{"0", []float64{0}},
		{"", []float64{0}},
		{"10/x/8", []float64{10, 0, 8}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseProgression(tt.raw), "raw=%q", tt.raw)
	}
}

func TestFormatPercentage(t *testing.T) {
	require.Equal(t, "85%", FormatPercentage(0.85))
	require.Equal(t, "0%", FormatPercentage(0))
	require.Equal(t, "0%", FormatPercentage(-1))
	require.Equal(t, "100%", FormatPercentage(1))
}

func TestFormatStats(t *testing.T) {
	stats := &HeroStats{WinRate: 0.5231, AppearRate: 0.031, BanRate: 0.002, StrengthLabel: "T0"}
	got := FormatStats(stats)
	require.Equal(t, "52.31%", got.WinRate)
	require.Equal(t, "3.10%", got.PickRate)
	require.Equal(t, "0.20%", got.BanRate)
	require.Equal(t, "T0", got.Tier)

	// Missing label defaults to the lowest tier.
	got = FormatStats(&HeroStats{WinRate: 0.5})
	require.Equal(t, "C", got.Tier)

	// Missing record entirely.
	got = FormatStats(nil)
	require.Equal(t, hok.Stats{WinRate: "0%", PickRate: "0%", BanRate: "0%", Tier: "C"}, got)
}

func TestNormalizeHeroFallbacks(t *testing.T) {
	info := &HeroInfo{
		HeroID:          142,
		HeroName:        "Angela",
		TypeName:        "Mage",
		LaneName:        "Mid Lane",
		Icon:            "https://cdn.example/icon.png",
		SurvivalAbility: 0.4,
		Difficulty:      0.2,
	}

	hero := NormalizeHero(info, nil, nil, nil, nil, nil)

	require.Equal(t, "Angela", hero.Name)
	// Banner and thumbnail fall back to the icon.
	require.Equal(t, info.Icon, hero.Banner)
	require.Equal(t, info.Icon, hero.Thumbnail)
	require.Equal(t, "40%", hero.SurvivalPct)
	require.Equal(t, "20%", hero.DifficultyPct)
	require.Equal(t, "Recommended", hero.BuildTitle)
	require.NotNil(t, hero.Skins)
	require.NotNil(t, hero.BestPartner)
}

func TestNormalizeHeroRelationsSkipEmptyNames(t *testing.T) {
	info := &HeroInfo{HeroID: 142, HeroName: "Angela"}
	relations := &RelationData{
		WinOdds: []RelationEntry{
			{HeroName: "Shi", Icon: "shi.png", Tips: "burst wins"},
			{HeroName: "  "},
		},
	}

	hero := NormalizeHero(info, nil, nil, nil, nil, relations)
	require.Len(t, hero.StrongAgainst, 1)
	require.Equal(t, "burst wins", hero.StrongAgainst["Shi"].Description)
}

func campTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/herolist/all", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"hero_id":142,"hero_name":"Angela"},{"hero_id":501,"hero_name":"Shi"}]}`)
	})
	mux.HandleFunc("/herodetail/info", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hero_id") == "142" {
			fmt.Fprint(w, `{"data":[{"hero_id":142,"hero_name":"Angela","hero_type_name":"Mage","hero_icon":"icon.png","survival_ability":0.4}]}`)
			return
		}
		// Shi has no detail record.
		fmt.Fprint(w, `{"data":[]}`)
	})
	mux.HandleFunc("/herodetail/skill", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"skill_name":"Puppet Dance","skill_cd":"10/9/8","skill_consume":"60/65/70"}]}`)
	})
	mux.HandleFunc("/herostats/one", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"win_rate":0.5231,"appear_rate":0.031,"ban_rate":0.002,"strength_label":"S"}}`)
	})
	mux.HandleFunc("/herodetail/equip", func(w http.ResponseWriter, r *http.Request) {
		// Equipment endpoint down; the hero must still come through.
		http.Error(w, "upstream error", http.StatusBadGateway)
	})
	mux.HandleFunc("/herodetail/rune", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"rune_id":10,"rune_name":"Hunt"}]}`)
	})
	mux.HandleFunc("/herodetail/relation", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"best_partner":[{"hero_name":"Shi","hero_icon":"shi.png"}]}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIngesterFetch(t *testing.T) {
	srv := campTestServer(t)
	ingester := NewIngester(New(srv.URL))

	heroes, err := ingester.Fetch(context.Background())
	require.NoError(t, err)

	// Shi had no detail record and is skipped.
	require.Len(t, heroes, 1)

	angela := heroes[0]
	require.Equal(t, 142, angela.HeroID)
	require.Equal(t, "Mage", angela.Role)
	require.Equal(t, "52.31%", angela.Statistics.WinRate)
	require.Equal(t, "S", angela.Statistics.Tier)

	require.Len(t, angela.Abilities, 1)
	require.Equal(t, []float64{10, 9, 8}, angela.Abilities[0].Cooldown)
	require.Equal(t, []float64{60, 65, 70}, angela.Abilities[0].Cost)

	// The failed equip endpoint only cost the build, not the hero.
	require.Empty(t, angela.RecommendedItems)
	require.Equal(t, "Recommended", angela.BuildTitle)

	require.Len(t, angela.RecommendedAugments, 1)
	require.Contains(t, angela.BestPartner, "Shi")
}

func TestIngesterFetchRosterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewIngester(New(srv.URL)).Fetch(context.Background())
	require.Error(t, err)
}
