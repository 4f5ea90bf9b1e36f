// Package backup loads the flat skin dump kept as an alternative skin
// source. It only knows skins, so its partials carry a hero id and a
// skin list and nothing else.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/herolabs/hokhub/internal/hok"
)

// SkinRecord is one entry of the dump.
type SkinRecord struct {
	SkinName   string `json:"skinName"`
	SkinCover  string `json:"skinCover"`
	SkinImage  string `json:"skinImage"`
	SkinSeries string `json:"skinSeries"`
	Hero       struct {
		HeroID int `json:"heroId"`
	} `json:"hero"`
}

// LoadFile reads a dump from disk.
func LoadFile(path string) ([]SkinRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skin dump: %w", err)
	}
	var records []SkinRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse skin dump: %w", err)
	}
	return records, nil
}

// FetchURL downloads a dump.
func FetchURL(ctx context.Context, url string) ([]SkinRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch skin dump: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var records []SkinRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse skin dump: %w", err)
	}
	return records, nil
}

// Normalize groups the dump by hero id. Records without one are dropped
// with a warning (there is nothing to join them by). Output is sorted by
// hero id so repeated runs produce identical partial lists.
func Normalize(records []SkinRecord) []*hok.Hero {
	byHero := map[int][]hok.Skin{}
	dropped := 0
	for _, rec := range records {
		if rec.Hero.HeroID == 0 {
			dropped++
			continue
		}
		byHero[rec.Hero.HeroID] = append(byHero[rec.Hero.HeroID], hok.Skin{
			Name:   rec.SkinName,
			Cover:  rec.SkinCover,
			Image:  rec.SkinImage,
			Series: rec.SkinSeries,
		})
	}
	if dropped > 0 {
		log.Printf("⚠️  Backup: dropped %d skin records with no hero id", dropped)
	}

	ids := make([]int, 0, len(byHero))
	for id := range byHero {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	heroes := make([]*hok.Hero, 0, len(ids))
	for _, id := range ids {
		heroes = append(heroes, &hok.Hero{HeroID: id, Skins: byHero[id]})
	}

	log.Printf("✓ Backup: %d skins across %d heroes", len(records)-dropped, len(heroes))
	return heroes
}
