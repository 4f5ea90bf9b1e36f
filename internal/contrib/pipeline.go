package contrib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Store persists the merged dataset, the contribution files, and the
// moderation history. internal/store implements it on disk.
type Store interface {
	// UpdateSnapshotDoc runs fn as one read-modify-write cycle over the
	// dataset inside the store's single-writer critical section. An
	// error from fn aborts without writing.
	UpdateSnapshotDoc(ctx context.Context, fn func(doc json.RawMessage) (json.RawMessage, error)) error

	SaveContribution(ctx context.Context, c *Contribution) error
	// FindContribution locates a contribution in any state directory.
	FindContribution(ctx context.Context, id string) (*Contribution, error)
	// MoveContribution rewrites the file under its new status directory
	// and removes it from the old one.
	MoveContribution(ctx context.Context, c *Contribution, from Status) error
	ListContributions(ctx context.Context, status Status) ([]*Contribution, error)

	AppendHistory(ctx context.Context, entry HistoryEntry, limit int) error
	LoadHistory(ctx context.Context) ([]HistoryEntry, error)
}

// Notifier receives lifecycle events. Implementations must be
// best-effort; the pipeline calls them detached and ignores failures.
type Notifier interface {
	ContributionSubmitted(ctx context.Context, c *Contribution)
	ContributionResolved(ctx context.Context, c *Contribution)
}

// Credits records approved work on the submitter's account.
// Implementations are best-effort.
type Credits interface {
	CreditContribution(ctx context.Context, submitterID string) error
}

// Pipeline is the moderation state machine. Contribution transitions
// funnel through one mutex so reviewers can race freely, and dataset
// merges additionally run inside the store's writer lock, shared with
// the reconcile path.
type Pipeline struct {
	store     Store
	notifiers []Notifier
	credits   Credits

	mu     sync.Mutex
	lastID int64
}

// NewPipeline wires the pipeline. credits may be nil.
func NewPipeline(store Store, credits Credits, notifiers ...Notifier) *Pipeline {
	return &Pipeline{store: store, credits: credits, notifiers: notifiers}
}

// SubmitRequest is an incoming contribution before validation.
type SubmitRequest struct {
	Type          Type            `json:"type"`
	Data          json.RawMessage `json:"data"`
	SubmitterID   string          `json:"-"`
	SubmitterName string          `json:"-"`
}

// Submit validates and persists a new pending contribution, then fires
// notifications without waiting on them.
func (p *Pipeline) Submit(ctx context.Context, req SubmitRequest) (*Contribution, error) {
	if _, err := DecodePayload(req.Type, req.Data); err != nil {
		return nil, err
	}

	c := &Contribution{
		ID:            p.nextID(req.Type),
		Type:          req.Type,
		Data:          req.Data,
		SubmitterID:   req.SubmitterID,
		SubmitterName: req.SubmitterName,
		Status:        StatusPending,
		SubmittedAt:   time.Now().UTC(),
	}

	if err := p.store.SaveContribution(ctx, c); err != nil {
		return nil, &PersistenceError{Op: "save contribution", Err: err}
	}

	log.Printf("✓ Contribution submitted: %s", c.ID)
	p.notifyAsync(func(n Notifier, ctx context.Context) { n.ContributionSubmitted(ctx, c) })
	return c, nil
}

// nextID builds a type-prefixed, time-ordered id. Submissions landing
// in the same millisecond are bumped forward to keep ids unique.
func (p *Pipeline) nextID(t Type) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= p.lastID {
		ms = p.lastID + 1
	}
	p.lastID = ms
	return fmt.Sprintf("%s-%d", t, ms)
}

// ListPending returns the moderation queue, oldest first.
func (p *Pipeline) ListPending(ctx context.Context) ([]*Contribution, error) {
	list, err := p.store.ListContributions(ctx, StatusPending)
	if err != nil {
		return nil, &PersistenceError{Op: "list pending", Err: err}
	}
	return list, nil
}

// Approve merges a pending contribution into the dataset and moves it
// to the approved state. The merge happens on a clone; a failed merge
// leaves both the contribution and the dataset exactly as they were.
func (p *Pipeline) Approve(ctx context.Context, id string) (*Contribution, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.approveLocked(ctx, id)
}

func (p *Pipeline) approveLocked(ctx context.Context, id string) (*Contribution, error) {
	c, err := p.takePending(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := DecodePayload(c.Type, c.Data)
	if err != nil {
		return nil, &MergeError{ContributionID: id, Err: err}
	}

	// The whole load-merge-save cycle runs inside the store's writer
	// lock, so a reconcile swap or stats patch can never land between
	// this load and its save.
	err = p.store.UpdateSnapshotDoc(ctx, func(raw json.RawMessage) (json.RawMessage, error) {
		snap, err := decodeSnapshot(raw)
		if err != nil {
			return nil, &PersistenceError{Op: "parse dataset", Err: err}
		}
		if err := applyMerge(snap, c.Type, payload); err != nil {
			return nil, &MergeError{ContributionID: id, Err: err}
		}
		updated, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, &PersistenceError{Op: "encode dataset", Err: err}
		}
		return updated, nil
	})
	if err != nil {
		var merge *MergeError
		var persist *PersistenceError
		if !errors.As(err, &merge) && !errors.As(err, &persist) {
			err = &PersistenceError{Op: "update dataset", Err: err}
		}
		return nil, err
	}

	now := time.Now().UTC()
	c.Status = StatusApproved
	c.ReviewedAt = &now
	if err := p.store.MoveContribution(ctx, c, StatusPending); err != nil {
		return nil, &PersistenceError{Op: "move contribution", Err: err}
	}

	p.logHistory(ctx, c)
	p.creditSubmitter(ctx, c)

	log.Printf("✅ Contribution approved and merged: %s", id)
	p.notifyAsync(func(n Notifier, ctx context.Context) { n.ContributionResolved(ctx, c) })
	return c, nil
}

// Reject moves a pending contribution to the rejected state. Nothing is
// merged.
func (p *Pipeline) Reject(ctx context.Context, id string) (*Contribution, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rejectLocked(ctx, id)
}

func (p *Pipeline) rejectLocked(ctx context.Context, id string) (*Contribution, error) {
	c, err := p.takePending(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.Status = StatusRejected
	c.ReviewedAt = &now
	if err := p.store.MoveContribution(ctx, c, StatusPending); err != nil {
		return nil, &PersistenceError{Op: "move contribution", Err: err}
	}

	p.logHistory(ctx, c)

	log.Printf("❌ Contribution rejected: %s", id)
	p.notifyAsync(func(n Notifier, ctx context.Context) { n.ContributionResolved(ctx, c) })
	return c, nil
}

// takePending loads a contribution and checks it is still pending.
func (p *Pipeline) takePending(ctx context.Context, id string) (*Contribution, error) {
	c, err := p.store.FindContribution(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusPending {
		return nil, fmt.Errorf("%s is %s: %w", id, c.Status, ErrInvalidTransition)
	}
	return c, nil
}

// BulkResult is the per-id outcome of a bulk operation.
type BulkResult struct {
	ID     string `json:"id"`
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ApproveBulk approves ids strictly in order. One failure never stops
// the rest; every id gets its own outcome.
func (p *Pipeline) ApproveBulk(ctx context.Context, ids []string) []BulkResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		if c, err := p.approveLocked(ctx, id); err != nil {
			results = append(results, BulkResult{ID: id, Error: err.Error()})
		} else {
			results = append(results, BulkResult{ID: id, Status: c.Status})
		}
	}
	return results
}

// RejectBulk rejects ids strictly in order with per-id outcomes.
func (p *Pipeline) RejectBulk(ctx context.Context, ids []string) []BulkResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		if c, err := p.rejectLocked(ctx, id); err != nil {
			results = append(results, BulkResult{ID: id, Error: err.Error()})
		} else {
			results = append(results, BulkResult{ID: id, Status: c.Status})
		}
	}
	return results
}

// History returns the moderation log, newest first.
func (p *Pipeline) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := p.store.LoadHistory(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load history", Err: err}
	}
	return entries, nil
}

func (p *Pipeline) logHistory(ctx context.Context, c *Contribution) {
	entry := HistoryEntry{
		ID:          c.ID,
		Type:        c.Type,
		Action:      c.Status,
		SubmittedAt: c.SubmittedAt,
		ReviewedAt:  *c.ReviewedAt,
		Data:        c.Data,
	}
	if err := p.store.AppendHistory(ctx, entry, HistoryLimit); err != nil {
		// The contribution is already resolved; history is advisory.
		log.Printf("⚠️  history append failed for %s: %v", c.ID, err)
	}
}

func (p *Pipeline) creditSubmitter(ctx context.Context, c *Contribution) {
	if p.credits == nil || c.SubmitterID == "" {
		return
	}
	if err := p.credits.CreditContribution(ctx, c.SubmitterID); err != nil {
		log.Printf("⚠️  crediting submitter %s failed: %v", c.SubmitterID, err)
	}
}

// notifyAsync fans an event out to every notifier without blocking the
// caller. Each gets a short independent deadline.
func (p *Pipeline) notifyAsync(fn func(Notifier, context.Context)) {
	for _, n := range p.notifiers {
		go func(n Notifier) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			fn(n, ctx)
		}(n)
	}
}
