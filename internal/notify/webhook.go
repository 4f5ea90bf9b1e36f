// Package notify delivers moderation events to an external webhook
// (Discord/Slack style). Delivery is best-effort: a missing URL disables
// the notifier and failures are logged, never returned.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/herolabs/hokhub/internal/contrib"
)

// Webhook posts contribution events as simple text payloads.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier. An empty URL yields a disabled
// notifier that drops everything silently.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ContributionSubmitted announces a new pending contribution.
func (w *Webhook) ContributionSubmitted(ctx context.Context, c *contrib.Contribution) {
	name := c.SubmitterName
	if name == "" {
		name = "anonymous"
	}
	w.post(ctx, fmt.Sprintf("📥 New %s contribution `%s` from %s awaiting review", c.Type, c.ID, name))
}

// ContributionResolved announces a moderation decision.
func (w *Webhook) ContributionResolved(ctx context.Context, c *contrib.Contribution) {
	switch c.Status {
	case contrib.StatusApproved:
		w.post(ctx, fmt.Sprintf("✅ Contribution `%s` approved and merged", c.ID))
	case contrib.StatusRejected:
		w.post(ctx, fmt.Sprintf("❌ Contribution `%s` rejected", c.ID))
	}
}

func (w *Webhook) post(ctx context.Context, content string) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️  webhook request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  webhook delivery failed: %v", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️  webhook returned status %d", resp.StatusCode)
	}
}
