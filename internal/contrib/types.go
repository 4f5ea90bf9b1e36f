package contrib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/herolabs/hokhub/internal/hok"
)

// Type enumerates the supported contribution kinds.
type Type string

const (
	TypeSkin     Type = "skin"
	TypeHero     Type = "hero"
	TypeSeries   Type = "series"
	TypeCounter  Type = "counter"
	TypeSkinEdit Type = "skin-edit"
)

// Status is the moderation state. Approved and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Contribution is one community submission. Data holds the raw payload;
// it is decoded per Type for validation and merging.
type Contribution struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	Data          json.RawMessage `json:"data"`
	SubmitterID   string          `json:"submitterId,omitempty"`
	SubmitterName string          `json:"submitterName,omitempty"`
	Status        Status          `json:"status"`
	SubmittedAt   time.Time       `json:"submittedAt"`
	ReviewedAt    *time.Time      `json:"reviewedAt,omitempty"`
}

// HistoryEntry is one row of the moderation log.
type HistoryEntry struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Action      Status          `json:"action"`
	SubmittedAt time.Time       `json:"submittedAt"`
	ReviewedAt  time.Time       `json:"reviewedAt"`
	Data        json.RawMessage `json:"data"`
}

// HistoryLimit caps the moderation log; older entries fall off.
const HistoryLimit = 1000

// SkinPayload adds or updates one skin on an existing hero.
type SkinPayload struct {
	HeroID int      `json:"heroId"`
	Skin   hok.Skin `json:"skin"`
}

// HeroPayload inserts a new hero or shallow-merges over an existing one.
// The snapshot key is the uppercased display name.
type HeroPayload struct {
	hok.Hero
}

// SeriesSkinRef identifies one skin inside a series payload.
type SeriesSkinRef struct {
	HeroID   int    `json:"heroId"`
	SkinName string `json:"skinName"`
}

// SeriesPayload relabels the series of every referenced skin.
type SeriesPayload struct {
	SeriesName string          `json:"seriesName"`
	Skins      []SeriesSkinRef `json:"skins"`
}

// Relation kinds accepted by counter payloads.
const (
	RelationStrongAgainst = "strongAgainst"
	RelationWeakAgainst   = "weakAgainst"
	RelationBestPartner   = "bestPartner"
)

// CounterPayload edits one matchup entry, optionally applying the
// inverse edit on the target hero.
type CounterPayload struct {
	HeroName       string `json:"heroName"`
	TargetHeroName string `json:"targetHeroName"`
	Relation       string `json:"relation"`
	Remove         bool   `json:"remove,omitempty"`
	Bidirectional  bool   `json:"bidirectional,omitempty"`
	Note           string `json:"note,omitempty"`
	Icon           string `json:"icon,omitempty"`
}

// SkinEditPayload updates fields of an existing skin, located by
// (heroId, skinName). Empty fields are left untouched.
type SkinEditPayload struct {
	HeroID   int    `json:"heroId"`
	SkinName string `json:"skinName"`
	NewName  string `json:"newName,omitempty"`
	Cover    string `json:"skinCover,omitempty"`
	Image    string `json:"skinImage,omitempty"`
	Series   string `json:"skinSeries,omitempty"`
}

// ValidTypes lists every accepted contribution type.
func ValidTypes() []Type {
	return []Type{TypeSkin, TypeHero, TypeSeries, TypeCounter, TypeSkinEdit}
}

// DecodePayload parses and validates the raw payload for a type.
func DecodePayload(t Type, raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Field: "data", Reason: "payload is required"}
	}

	switch t {
	case TypeSkin:
		var p SkinPayload
		if err := strictUnmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.HeroID <= 0 {
			return nil, &ValidationError{Field: "heroId", Reason: "must be a positive hero id"}
		}
		if strings.TrimSpace(p.Skin.Name) == "" {
			return nil, &ValidationError{Field: "skin.skinName", Reason: "is required"}
		}
		return &p, nil

	case TypeHero:
		var p HeroPayload
		if err := strictUnmarshal(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, &ValidationError{Field: "name", Reason: "is required"}
		}
		if p.HeroID <= 0 {
			return nil, &ValidationError{Field: "heroId", Reason: "must be a positive hero id"}
		}
		return &p, nil

	case TypeSeries:
		var p SeriesPayload
		if err := strictUnmarshal(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.SeriesName) == "" {
			return nil, &ValidationError{Field: "seriesName", Reason: "is required"}
		}
		if len(p.Skins) == 0 {
			return nil, &ValidationError{Field: "skins", Reason: "must reference at least one skin"}
		}
		for i, ref := range p.Skins {
			if ref.HeroID <= 0 || strings.TrimSpace(ref.SkinName) == "" {
				return nil, &ValidationError{
					Field:  fmt.Sprintf("skins[%d]", i),
					Reason: "needs both heroId and skinName",
				}
			}
		}
		return &p, nil

	case TypeCounter:
		var p CounterPayload
		if err := strictUnmarshal(raw, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.HeroName) == "" {
			return nil, &ValidationError{Field: "heroName", Reason: "is required"}
		}
		if strings.TrimSpace(p.TargetHeroName) == "" {
			return nil, &ValidationError{Field: "targetHeroName", Reason: "is required"}
		}
		switch p.Relation {
		case RelationStrongAgainst, RelationWeakAgainst, RelationBestPartner:
		default:
			return nil, &ValidationError{Field: "relation", Reason: "must be strongAgainst, weakAgainst, or bestPartner"}
		}
		return &p, nil

	case TypeSkinEdit:
		var p SkinEditPayload
		if err := strictUnmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.HeroID <= 0 {
			return nil, &ValidationError{Field: "heroId", Reason: "must be a positive hero id"}
		}
		if strings.TrimSpace(p.SkinName) == "" {
			return nil, &ValidationError{Field: "skinName", Reason: "is required"}
		}
		if p.NewName == "" && p.Cover == "" && p.Image == "" && p.Series == "" {
			return nil, &ValidationError{Field: "data", Reason: "no fields to update"}
		}
		return &p, nil

	default:
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown contribution type %q", t)}
	}
}

// strictUnmarshal rejects fields the payload type does not define, so a
// typoed field surfaces as a validation error instead of silently
// dropped data.
func strictUnmarshal(raw json.RawMessage, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &ValidationError{Field: "data", Reason: err.Error()}
	}
	return nil
}
