package camp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// BaseURL for the analytics API
	BaseURL = "https://api-hok.honorofkings.com/web"
)

// Client handles analytics API requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an analytics client with a custom base URL (tests point
// this at an httptest server).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClient creates an analytics client with default settings.
func NewClient() *Client {
	return New(BaseURL)
}

// FetchHeroList fetches the hero roster.
func (c *Client) FetchHeroList(ctx context.Context) ([]HeroListEntry, error) {
	var resp heroListResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herolist/all", c.baseURL), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchHeroInfo fetches the detail record for one hero. Returns nil
// when the API does not know the id.
func (c *Client) FetchHeroInfo(ctx context.Context, heroID int) (*HeroInfo, error) {
	var resp heroInfoResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herodetail/info?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// FetchHeroStats fetches ranked statistics for one hero.
func (c *Client) FetchHeroStats(ctx context.Context, heroID int) (*HeroStats, error) {
	var resp heroStatsResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herostats/one?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchSkills fetches the ability list for one hero.
func (c *Client) FetchSkills(ctx context.Context, heroID int) ([]SkillEntry, error) {
	var resp skillListResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herodetail/skill?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchEquip fetches the recommended equipment build for one hero.
func (c *Client) FetchEquip(ctx context.Context, heroID int) (*EquipData, error) {
	var resp equipResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herodetail/equip?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchRunes fetches the recommended arcana for one hero.
func (c *Client) FetchRunes(ctx context.Context, heroID int) ([]RuneEntry, error) {
	var resp runeListResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herodetail/rune?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchRelations fetches matchup lists (partners, counters) for one hero.
func (c *Client) FetchRelations(ctx context.Context, heroID int) (*RelationData, error) {
	var resp relationResponse
	if err := c.fetch(ctx, fmt.Sprintf("%s/herodetail/relation?hero_id=%d", c.baseURL, heroID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}
