package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/herolabs/hokhub/internal/contrib"
)

const (
	snapshotFile = "merged-api.json"
	historyFile  = "history.json"
)

// DocumentStore keeps the merged dataset and the contribution files on
// disk. Writes go through a temp file and a rename so readers never see
// a half-written document, and every dataset write holds the store's
// writer lock so one writer's read-modify-write cycle cannot erase
// another's.
type DocumentStore struct {
	dataDir string

	// writerMu serializes all mutations of the merged dataset: approval
	// merges, stats patches, and full reconcile swaps.
	writerMu sync.Mutex
}

// NewDocumentStore creates the directory layout under dataDir.
func NewDocumentStore(dataDir string) (*DocumentStore, error) {
	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "contributions", string(contrib.StatusPending)),
		filepath.Join(dataDir, "contributions", string(contrib.StatusApproved)),
		filepath.Join(dataDir, "contributions", string(contrib.StatusRejected)),
		filepath.Join(dataDir, "contributions", "history"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &DocumentStore{dataDir: dataDir}, nil
}

// SnapshotPath returns the location of the merged dataset document.
func (s *DocumentStore) SnapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshotDoc reads the merged dataset. A missing file is an empty
// document, not an error.
func (s *DocumentStore) LoadSnapshotDoc(ctx context.Context) (json.RawMessage, error) {
	raw, err := os.ReadFile(s.SnapshotPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return raw, nil
}

// SaveSnapshotDoc atomically replaces the merged dataset. The writer
// lock keeps the swap from landing in the middle of another writer's
// read-modify-write cycle.
func (s *DocumentStore) SaveSnapshotDoc(ctx context.Context, doc json.RawMessage) error {
	s.writerMu.Lock()
	defer s.writerMu.Unlock()
	return s.writeAtomic(s.SnapshotPath(), doc)
}

// UpdateSnapshotDoc runs one read-modify-write cycle over the merged
// dataset under the writer lock. fn gets the current document (nil when
// none exists) and returns the replacement; returning an error aborts
// without writing.
func (s *DocumentStore) UpdateSnapshotDoc(ctx context.Context, fn func(doc json.RawMessage) (json.RawMessage, error)) error {
	s.writerMu.Lock()
	defer s.writerMu.Unlock()

	doc, err := s.LoadSnapshotDoc(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(doc)
	if err != nil {
		return err
	}
	return s.writeAtomic(s.SnapshotPath(), updated)
}

func (s *DocumentStore) contributionPath(status contrib.Status, id string) string {
	return filepath.Join(s.dataDir, "contributions", string(status), id+".json")
}

// SaveContribution writes the contribution under its status directory.
func (s *DocumentStore) SaveContribution(ctx context.Context, c *contrib.Contribution) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contribution %s: %w", c.ID, err)
	}
	return s.writeAtomic(s.contributionPath(c.Status, c.ID), raw)
}

// FindContribution searches every status directory for an id.
func (s *DocumentStore) FindContribution(ctx context.Context, id string) (*contrib.Contribution, error) {
	for _, status := range []contrib.Status{contrib.StatusPending, contrib.StatusApproved, contrib.StatusRejected} {
		c, err := s.readContribution(s.contributionPath(status, id))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		// Trust the directory over the file body.
		c.Status = status
		return c, nil
	}
	return nil, fmt.Errorf("contribution %s: %w", id, contrib.ErrNotFound)
}

// MoveContribution writes the contribution under its (already updated)
// status and removes the old file. Write first, so a crash between the
// two leaves a duplicate rather than a loss.
func (s *DocumentStore) MoveContribution(ctx context.Context, c *contrib.Contribution, from contrib.Status) error {
	if err := s.SaveContribution(ctx, c); err != nil {
		return err
	}
	if err := os.Remove(s.contributionPath(from, c.ID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s from %s: %w", c.ID, from, err)
	}
	return nil
}

// ListContributions returns every contribution in one state, oldest
// first. Ids are time-ordered, so a name sort is a time sort.
func (s *DocumentStore) ListContributions(ctx context.Context, status contrib.Status) ([]*contrib.Contribution, error) {
	dir := filepath.Join(s.dataDir, "contributions", string(status))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	list := make([]*contrib.Contribution, 0, len(names))
	for _, name := range names {
		c, err := s.readContribution(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		c.Status = status
		list = append(list, c)
	}
	return list, nil
}

func (s *DocumentStore) historyPath() string {
	return filepath.Join(s.dataDir, "contributions", "history", historyFile)
}

// AppendHistory prepends an entry and trims the log to limit.
func (s *DocumentStore) AppendHistory(ctx context.Context, entry contrib.HistoryEntry, limit int) error {
	history, err := s.LoadHistory(ctx)
	if err != nil {
		return err
	}

	history = append([]contrib.HistoryEntry{entry}, history...)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	raw, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.writeAtomic(s.historyPath(), raw)
}

// LoadHistory reads the moderation log, newest first. Missing file
// means empty log.
func (s *DocumentStore) LoadHistory(ctx context.Context) ([]contrib.HistoryEntry, error) {
	raw, err := os.ReadFile(s.historyPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []contrib.HistoryEntry
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return history, nil
}

func (s *DocumentStore) readContribution(path string) (*contrib.Contribution, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c contrib.Contribution
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// writeAtomic writes to a temp file in the target directory and renames
// it over the destination.
func (s *DocumentStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
