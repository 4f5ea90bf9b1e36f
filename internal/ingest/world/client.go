package world

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// BaseURL for the world site
	BaseURL = "https://world.honorofkings.com"

	heroListPath = "/zlkdatasys/yuzhouzhan/list/heroList-en.json"
	skinListPath = "/zlkdatasys/yuzhouzhan/en/pfjs.json"
	heroPagePath = "/zlkdatasys/ip/hero/en/%d.html"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval between hero page loads to prevent rate limiting
	MinRequestInterval = 2 * time.Second
)

// Client fetches the world-site JSON lists over plain HTTP and renders
// individual hero pages through a headless browser (the skin galleries
// are built client-side).
type Client struct {
	baseURL    string
	httpClient *http.Client

	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a world-site client with its own browser allocator.
func NewClient() (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		interval:   MinRequestInterval,
		allocCtx:   allocCtx,
		cancel:     cancel,
	}, nil
}

// Close releases the browser allocator.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchHeroList fetches the hero list document.
func (c *Client) FetchHeroList(ctx context.Context) (*HeroListDoc, error) {
	var doc HeroListDoc
	if err := c.fetchJSON(ctx, c.baseURL+heroListPath, &doc); err != nil {
		return nil, fmt.Errorf("fetch hero list: %w", err)
	}
	return &doc, nil
}

// FetchSkinList fetches the skin-series document.
func (c *Client) FetchSkinList(ctx context.Context) (*SkinListDoc, error) {
	var doc SkinListDoc
	if err := c.fetchJSON(ctx, c.baseURL+skinListPath, &doc); err != nil {
		return nil, fmt.Errorf("fetch skin list: %w", err)
	}
	return &doc, nil
}

// FetchHeroPage renders a hero page and returns its HTML.
func (c *Client) FetchHeroPage(ctx context.Context, heroID int) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			waitTime := c.interval - elapsed
			log.Printf("Rate limiting: waiting %v before next hero page", waitTime)
			time.Sleep(waitTime)
		}
	}

	html, err := c.renderPage(ctx, fmt.Sprintf(c.baseURL+heroPagePath, heroID))
	c.lastRequest = time.Now()

	return html, err
}

func (c *Client) fetchJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) renderPage(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}
