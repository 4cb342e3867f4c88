// Package offline provides the demo/offline board source: a JSON snapshot
// file standing in for the backend, plus a watcher that turns edits to it
// into convergence triggers.
package offline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tarviz/pipeboard/internal/api"
)

// Store reads and rewrites a board snapshot file.
//
// The file holds the same wire format the listing endpoint returns, so a
// demo board and a captured real response are interchangeable. Writes go
// through a temp-file rename to keep the snapshot readable at all times.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store for the given snapshot path. The file does not
// need to exist yet; Load on a missing file returns an empty board.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path cannot be empty")
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot's items. A missing file is an empty board, not
// an error; a corrupt file is an error.
func (s *Store) Load() ([]api.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]api.ContentItem, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var items []api.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	return items, nil
}

// Save replaces the snapshot with the given items.
func (s *Store) Save(items []api.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(items)
}

func (s *Store) save(items []api.ContentItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to install snapshot: %w", err)
	}
	return nil
}

// UpdateColumn rewrites one item's column in place.
func (s *Store) UpdateColumn(itemID, column string) error {
	return s.update(itemID, func(item *api.ContentItem) {
		item.Column = column
	})
}

// UpdateScheduled rewrites one item's column and scheduled time in place.
func (s *Store) UpdateScheduled(itemID, column, scheduledAt string) error {
	return s.update(itemID, func(item *api.ContentItem) {
		item.Column = column
		item.ScheduledAt = scheduledAt
	})
}

func (s *Store) update(itemID string, apply func(*api.ContentItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if fmt.Sprintf("%d", items[i].ID) == itemID {
			apply(&items[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("item %s not in snapshot", itemID)
	}

	return s.save(items)
}

// DemoItems returns a small seed board for demo mode.
func DemoItems() []api.ContentItem {
	client := &api.UserRef{ID: 42, FirstName: "Nova", LastName: "Retail"}
	return []api.ContentItem{
		{
			ID: 1, Title: "poster-08: monsoon sale", Column: "backlog",
			Platforms: []string{"instagram"}, Priority: "high",
			DueDate: "2026-09-05", Client: client,
		},
		{
			ID: 2, Title: "reel-03: behind the scenes", Column: "content_writing",
			Platforms: []string{"instagram", "facebook"}, Priority: "medium",
			DueDate: "2026-09-08", Client: client,
			AssignedTo: &api.UserRef{FirstName: "Maya"},
		},
		{
			ID: 3, Title: "carousel-01: product launch", Column: "design_creative",
			Platforms: []string{"instagram"}, Priority: "high",
			DueDate: "2026-09-03", Client: client,
			AssignedTo: &api.UserRef{FirstName: "Dev"},
		},
		{
			ID: 4, Title: "story-12: festive teaser", Column: "internal_review",
			Platforms: []string{"instagram"}, Priority: "low",
			DueDate: "2026-09-10", Client: client,
		},
		{
			ID: 5, Title: "poster-09: weekend offer", Column: "client_approval",
			Platforms: []string{"facebook"}, Priority: "medium",
			DueDate: "2026-09-06", Client: client, UnreadCommentsCount: 2,
		},
		{
			ID: 6, Title: "banner-02: homepage refresh", Column: "finalized",
			Platforms: []string{"linkedin"}, Priority: "low",
			DueDate: "2026-09-12", Client: client,
		},
	}
}
