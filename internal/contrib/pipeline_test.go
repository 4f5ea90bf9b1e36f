package contrib

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/herolabs/hokhub/internal/hok"
)

// memStore is an in-memory Store for pipeline tests.
type memStore struct {
	mu            sync.Mutex
	doc           json.RawMessage
	contributions map[string]*Contribution
	history       []HistoryEntry

	failSaveDoc bool
}

func newMemStore(t *testing.T, snap *hok.Snapshot) *memStore {
	t.Helper()
	doc, err := json.Marshal(snap)
	require.NoError(t, err)
	return &memStore{doc: doc, contributions: map[string]*Contribution{}}
}

func (m *memStore) UpdateSnapshotDoc(ctx context.Context, fn func(json.RawMessage) (json.RawMessage, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated, err := fn(m.doc)
	if err != nil {
		return err
	}
	if m.failSaveDoc {
		return fmt.Errorf("disk full")
	}
	m.doc = updated
	return nil
}

func (m *memStore) SaveContribution(ctx context.Context, c *Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cpy := *c
	m.contributions[c.ID] = &cpy
	return nil
}

func (m *memStore) FindContribution(ctx context.Context, id string) (*Contribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contributions[id]
	if !ok {
		return nil, fmt.Errorf("contribution %s: %w", id, ErrNotFound)
	}
	cpy := *c
	return &cpy, nil
}

func (m *memStore) MoveContribution(ctx context.Context, c *Contribution, from Status) error {
	return m.SaveContribution(ctx, c)
}

func (m *memStore) ListContributions(ctx context.Context, status Status) ([]*Contribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Contribution
	for _, c := range m.contributions {
		if c.Status == status {
			cpy := *c
			out = append(out, &cpy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) AppendHistory(ctx context.Context, entry HistoryEntry, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append([]HistoryEntry{entry}, m.history...)
	if len(m.history) > limit {
		m.history = m.history[:limit]
	}
	return nil
}

func (m *memStore) LoadHistory(ctx context.Context) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out, nil
}

func (m *memStore) snapshot(t *testing.T) *hok.Snapshot {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var snap hok.Snapshot
	require.NoError(t, json.Unmarshal(m.doc, &snap))
	return &snap
}

type recordingCredits struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingCredits) CreditContribution(ctx context.Context, submitterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, submitterID)
	return nil
}

func pipelineFixture(t *testing.T) (*Pipeline, *memStore) {
	t.Helper()
	snap := hok.NewSnapshot()
	snap.Main["ANGELA"] = &hok.Hero{Name: "Angela", HeroID: 142, Skins: []hok.Skin{{Name: "Classic"}}}
	snap.Main["SHI"] = &hok.Hero{Name: "Shi", HeroID: 501}
	for _, h := range snap.Main {
		h.EnsureDefaults()
	}
	store := newMemStore(t, snap)
	return NewPipeline(store, nil), store
}

func submitSkin(t *testing.T, p *Pipeline, heroID int, name, series string) *Contribution {
	t.Helper()
	raw, err := json.Marshal(SkinPayload{HeroID: heroID, Skin: hok.Skin{Name: name, Series: series}})
	require.NoError(t, err)
	c, err := p.Submit(context.Background(), SubmitRequest{Type: TypeSkin, Data: raw})
	require.NoError(t, err)
	return c
}

func TestSubmitAssignsOrderedIDs(t *testing.T) {
	p, _ := pipelineFixture(t)

	a := submitSkin(t, p, 142, "Skin A", "")
	b := submitSkin(t, p, 142, "Skin B", "")

	require.Equal(t, StatusPending, a.Status)
	require.True(t, a.ID < b.ID, "ids must be time ordered: %s vs %s", a.ID, b.ID)
	require.Contains(t, a.ID, "skin-")
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	p, _ := pipelineFixture(t)

	_, err := p.Submit(context.Background(), SubmitRequest{Type: TypeSkin, Data: json.RawMessage(`{"heroId":0}`)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	pending, err := p.ListPending(context.Background())
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestApproveMergesAndResolves(t *testing.T) {
	p, store := pipelineFixture(t)
	ctx := context.Background()

	c := submitSkin(t, p, 142, "Swan Princess", "MAGIC")

	approved, err := p.Approve(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	snap := store.snapshot(t)
	hero := snap.Main["ANGELA"]
	require.Len(t, hero.Skins, 2)
	require.Equal(t, hok.TierFlawless, hero.Skins[1].Tier)

	history, err := p.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, StatusApproved, history[0].Action)
}

func TestApproveTwiceIsInvalidTransition(t *testing.T) {
	p, _ := pipelineFixture(t)
	ctx := context.Background()

	c := submitSkin(t, p, 142, "Swan Princess", "MAGIC")

	_, err := p.Approve(ctx, c.ID)
	require.NoError(t, err)

	_, err = p.Approve(ctx, c.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = p.Reject(ctx, c.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveUnknownID(t *testing.T) {
	p, _ := pipelineFixture(t)

	_, err := p.Approve(context.Background(), "skin-0")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApproveMergeFailureLeavesEverythingUntouched(t *testing.T) {
	p, store := pipelineFixture(t)
	ctx := context.Background()

	before := store.snapshot(t)

	// Valid payload, but the hero does not exist in the dataset.
	raw, err := json.Marshal(SkinPayload{HeroID: 999, Skin: hok.Skin{Name: "Ghost"}})
	require.NoError(t, err)
	c, err := p.Submit(ctx, SubmitRequest{Type: TypeSkin, Data: raw})
	require.NoError(t, err)

	_, err = p.Approve(ctx, c.ID)
	var merr *MergeError
	require.ErrorAs(t, err, &merr)
	require.ErrorIs(t, err, ErrNotFound)

	// Dataset unchanged, contribution still pending and approvable later.
	after := store.snapshot(t)
	require.Equal(t, len(before.Main), len(after.Main))

	pending, err := p.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, c.ID, pending[0].ID)
}

func TestRejectNeverMerges(t *testing.T) {
	p, store := pipelineFixture(t)
	ctx := context.Background()

	c := submitSkin(t, p, 142, "Swan Princess", "MAGIC")

	rejected, err := p.Reject(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)

	snap := store.snapshot(t)
	require.Len(t, snap.Main["ANGELA"].Skins, 1)

	history, err := p.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, StatusRejected, history[0].Action)
}

func TestApproveBulkReportsPerID(t *testing.T) {
	p, store := pipelineFixture(t)
	ctx := context.Background()

	a := submitSkin(t, p, 142, "Skin A", "")
	b := submitSkin(t, p, 999, "Ghost", "") // merge will fail: no such hero
	c := submitSkin(t, p, 142, "Skin C", "")

	results := p.ApproveBulk(ctx, []string{a.ID, b.ID, "missing-id", c.ID})
	require.Len(t, results, 4)

	require.Equal(t, StatusApproved, results[0].Status)
	require.Empty(t, results[0].Error)

	require.NotEmpty(t, results[1].Error)
	require.NotEmpty(t, results[2].Error)

	// A failure mid-batch never stops later ids.
	require.Equal(t, StatusApproved, results[3].Status)

	snap := store.snapshot(t)
	require.Len(t, snap.Main["ANGELA"].Skins, 3)
}

func TestRejectBulk(t *testing.T) {
	p, _ := pipelineFixture(t)
	ctx := context.Background()

	a := submitSkin(t, p, 142, "Skin A", "")
	b := submitSkin(t, p, 142, "Skin B", "")

	results := p.RejectBulk(ctx, []string{a.ID, b.ID})
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, StatusRejected, r.Status)
	}

	pending, err := p.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestApproveCreditsSubmitter(t *testing.T) {
	snap := hok.NewSnapshot()
	snap.Main["ANGELA"] = &hok.Hero{Name: "Angela", HeroID: 142}
	snap.Main["ANGELA"].EnsureDefaults()
	store := newMemStore(t, snap)

	credits := &recordingCredits{}
	p := NewPipeline(store, credits)
	ctx := context.Background()

	raw, err := json.Marshal(SkinPayload{HeroID: 142, Skin: hok.Skin{Name: "Swan Princess"}})
	require.NoError(t, err)
	c, err := p.Submit(ctx, SubmitRequest{Type: TypeSkin, Data: raw, SubmitterID: "7", SubmitterName: "tester"})
	require.NoError(t, err)

	_, err = p.Approve(ctx, c.ID)
	require.NoError(t, err)

	credits.mu.Lock()
	defer credits.mu.Unlock()
	require.Equal(t, []string{"7"}, credits.ids)
}

type recordingNotifier struct {
	mu        sync.Mutex
	submitted []string
	resolved  []string
}

func (n *recordingNotifier) ContributionSubmitted(ctx context.Context, c *Contribution) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, c.ID)
}

func (n *recordingNotifier) ContributionResolved(ctx context.Context, c *Contribution) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resolved = append(n.resolved, c.ID)
}

func TestNotifierFanOut(t *testing.T) {
	snap := hok.NewSnapshot()
	snap.Main["ANGELA"] = &hok.Hero{Name: "Angela", HeroID: 142}
	snap.Main["ANGELA"].EnsureDefaults()
	store := newMemStore(t, snap)

	notifier := &recordingNotifier{}
	p := NewPipeline(store, nil, notifier)
	ctx := context.Background()

	raw, err := json.Marshal(SkinPayload{HeroID: 142, Skin: hok.Skin{Name: "Swan Princess"}})
	require.NoError(t, err)
	c, err := p.Submit(ctx, SubmitRequest{Type: TypeSkin, Data: raw})
	require.NoError(t, err)

	_, err = p.Approve(ctx, c.ID)
	require.NoError(t, err)

	// Notifications are fired detached; give them a moment.
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.submitted) == 1 && len(notifier.resolved) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApprovePersistFailureSurfaces(t *testing.T) {
	p, store := pipelineFixture(t)
	ctx := context.Background()

	c := submitSkin(t, p, 142, "Swan Princess", "MAGIC")
	store.failSaveDoc = true

	_, err := p.Approve(ctx, c.ID)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)

	// Still pending: the reviewer can retry once storage recovers.
	store.failSaveDoc = false
	_, err = p.Approve(ctx, c.ID)
	require.NoError(t, err)
}
