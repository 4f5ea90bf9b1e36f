package contrib

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		raw     string
		wantErr string
	}{
		{
			name: "valid skin",
			typ:  TypeSkin,
			raw:  `{"heroId":142,"skin":{"skinName":"Swan Princess","skinSeries":"MAGIC"}}`,
		},
		{
			name:    "skin missing hero id",
			typ:     TypeSkin,
			raw:     `{"skin":{"skinName":"Swan Princess"}}`,
			wantErr: "heroId",
		},
		{
			name:    "skin missing name",
			typ:     TypeSkin,
			raw:     `{"heroId":142,"skin":{"skinSeries":"MAGIC"}}`,
			wantErr: "skin.skinName",
		},
		{
			name: "valid hero",
			typ:  TypeHero,
			raw:  `{"name":"Angela","heroId":142,"role":"Mage"}`,
		},
		{
			name:    "hero missing name",
			typ:     TypeHero,
			raw:     `{"heroId":142}`,
			wantErr: "name",
		},
		{
			name:    "hero negative id",
			typ:     TypeHero,
			raw:     `{"name":"Angela","heroId":-1}`,
			wantErr: "heroId",
		},
		{
			name: "valid series",
			typ:  TypeSeries,
			raw:  `{"seriesName":"MAGIC","skins":[{"heroId":142,"skinName":"Swan Princess"}]}`,
		},
		{
			name:    "series without skins",
			typ:     TypeSeries,
			raw:     `{"seriesName":"MAGIC","skins":[]}`,
			wantErr: "skins",
		},
		{
			name:    "series ref missing skin name",
			typ:     TypeSeries,
			raw:     `{"seriesName":"MAGIC","skins":[{"heroId":142}]}`,
			wantErr: "skins[0]",
		},
		{
			name: "valid counter",
			typ:  TypeCounter,
			raw:  `{"heroName":"Angela","targetHeroName":"Shi","relation":"strongAgainst"}`,
		},
		{
			name:    "counter bad relation",
			typ:     TypeCounter,
			raw:     `{"heroName":"Angela","targetHeroName":"Shi","relation":"nemesis"}`,
			wantErr: "relation",
		},
		{
			name: "valid skin edit",
			typ:  TypeSkinEdit,
			raw:  `{"heroId":142,"skinName":"Swan Princess","skinSeries":"MAGIC"}`,
		},
		{
			name:    "skin edit with nothing to update",
			typ:     TypeSkinEdit,
			raw:     `{"heroId":142,"skinName":"Swan Princess"}`,
			wantErr: "data",
		},
		{
			name:    "unknown type",
			typ:     Type("tierlist"),
			raw:     `{}`,
			wantErr: "type",
		},
		{
			name:    "empty payload",
			typ:     TypeSkin,
			raw:     ``,
			wantErr: "data",
		},
		{
			name:    "malformed json",
			typ:     TypeSkin,
			raw:     `{not json`,
			wantErr: "data",
		},
		{
			name:    "skin with unknown field",
			typ:     TypeSkin,
			raw:     `{"heroId":142,"skin":{"skinName":"Swan Princess"},"skinname":"oops"}`,
			wantErr: "data",
		},
		{
			name:    "counter with unknown field",
			typ:     TypeCounter,
			raw:     `{"heroName":"Angela","targetHeroName":"Shi","relation":"strongAgainst","bidirectonal":true}`,
			wantErr: "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodePayload(tt.typ, json.RawMessage(tt.raw))
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, payload)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.Equal(t, tt.wantErr, verr.Field)
		})
	}
}

func TestHeroPayloadFlattenedJSON(t *testing.T) {
	// Hero payloads use the hero wire shape directly, not a nested object.
	raw := json.RawMessage(`{"name":"Angela","heroId":142,"skins":[{"skinName":"Classic","skinSeries":""}]}`)
	payload, err := DecodePayload(TypeHero, raw)
	require.NoError(t, err)

	p, ok := payload.(*HeroPayload)
	require.True(t, ok)
	require.Equal(t, "Angela", p.Name)
	require.Equal(t, 142, p.HeroID)
	require.Len(t, p.Skins, 1)
}

func TestValidTypes(t *testing.T) {
	require.ElementsMatch(t,
		[]Type{TypeSkin, TypeHero, TypeSeries, TypeCounter, TypeSkinEdit},
		ValidTypes())
}
