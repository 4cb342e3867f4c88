package sync

import (
	"context"

	"github.com/tarviz/pipeboard/internal/api"
)

// Backend is the slice of the REST API the synchronizer needs.
// *api.Client satisfies it; tests substitute a fake.
type Backend interface {
	// ListContentItems returns the full item list visible to the token.
	// Safe to call repeatedly; the synchronizer rate-caps its own calls.
	ListContentItems(ctx context.Context) ([]api.ContentItem, error)

	// MoveContentItem requests a stage transition. The backend performs
	// its own validation; the synchronizer does not retry on failure.
	MoveContentItem(ctx context.Context, itemID, targetColumn string) error

	// ScheduleContentItem schedules an item for publishing at the given
	// RFC 3339 timestamp, transitioning it to the scheduled column.
	ScheduleContentItem(ctx context.Context, itemID, scheduledAt string) error

	// ApproveContentItem records an approval decision ("approve" or
	// "revise") for an item in client approval.
	ApproveContentItem(ctx context.Context, itemID, action string) error
}

// SnapshotStore is the local board source used in offline mode.
// offline.Store satisfies it.
type SnapshotStore interface {
	// Load reads the snapshot's wire-format items.
	Load() ([]api.ContentItem, error)

	// UpdateColumn rewrites one item's column in the snapshot.
	UpdateColumn(itemID, column string) error

	// UpdateScheduled rewrites one item's column and scheduled time.
	UpdateScheduled(itemID, column, scheduledAt string) error
}
