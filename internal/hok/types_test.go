package hok

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeroKey(t *testing.T) {
	require.Equal(t, "ANGELA", HeroKey("  Angela "))
	require.Equal(t, "SHI", HeroKey("shi"))
}

func TestSnapshotGet(t *testing.T) {
	snap := NewSnapshot()
	snap.Main["ANGELA"] = &Hero{Name: "Angela", HeroID: 142}

	h, ok := snap.Get("angela")
	require.True(t, ok)
	require.Equal(t, 142, h.HeroID)

	_, ok = snap.Get("nobody")
	require.False(t, ok)
}

func TestSnapshotFindByID(t *testing.T) {
	snap := NewSnapshot()
	snap.Main["ANGELA"] = &Hero{Name: "Angela", HeroID: 142}

	key, h, ok := snap.FindByID(142)
	require.True(t, ok)
	require.Equal(t, "ANGELA", key)
	require.Equal(t, "Angela", h.Name)

	_, _, ok = snap.FindByID(999)
	require.False(t, ok)
}

func TestEnsureDefaults(t *testing.T) {
	h := &Hero{Name: "Angela"}
	h.EnsureDefaults()

	require.NotNil(t, h.Skins)
	require.NotNil(t, h.Abilities)
	require.NotNil(t, h.BestPartner)
	require.Equal(t, StatUnavailable, h.Statistics.WinRate)
	require.Equal(t, StatUnavailable, h.Statistics.Tier)
	require.Equal(t, "0%", h.SurvivalPct)

	// A hero with real stats keeps them.
	h2 := &Hero{Name: "Shi", Statistics: Stats{WinRate: "51.20%", PickRate: "3.00%", BanRate: "1.00%", Tier: "S"}}
	h2.EnsureDefaults()
	require.Equal(t, "51.20%", h2.Statistics.WinRate)
}

func TestHeroWireFormat(t *testing.T) {
	h := &Hero{Name: "Angela", HeroID: 142}
	h.EnsureDefaults()

	raw, err := json.Marshal(h)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))

	// Consumers index these keys directly; they must always be present.
	for _, key := range []string{
		"name", "heroId", "skins", "skill", "arcana", "recommendedEquipment",
		"bestPartners", "suppressingHeroes", "suppressedHeroes", "stats", "world",
		"survivalPercentage", "attackPercentage", "abilityPercentage", "difficultyPercentage",
	} {
		require.Contains(t, doc, key)
	}
}
