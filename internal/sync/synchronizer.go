package sync

import (
	"context"
	"fmt"
	"log"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tarviz/pipeboard/internal/api"
	"github.com/tarviz/pipeboard/internal/board"
)

// MutationKind labels an in-flight local intent.
type MutationKind string

const (
	// MutationMove is a drag-and-drop stage transition.
	MutationMove MutationKind = "move"
	// MutationSchedule is a publish-time assignment.
	MutationSchedule MutationKind = "schedule"
	// MutationApprove is a client approval decision.
	MutationApprove MutationKind = "approve"
)

// PendingMutation is a local intent whose backend write has not settled
// yet. It exists only for the duration of the async call and is never
// persisted.
type PendingMutation struct {
	ItemID   string
	From     board.Stage
	To       board.Stage
	Kind     MutationKind
	IssuedAt time.Time
}

// Config holds synchronizer configuration.
type Config struct {
	// Role gates which transitions may be originated locally.
	Role Role

	// Offline switches the synchronizer to the local snapshot store:
	// no network calls are made.
	Offline bool

	// RefreshLimit caps how often Refresh actually hits the backend,
	// keeping convergence triggers polling-friendly. Nil applies the
	// default of two fetches per second.
	RefreshLimit *rate.Limiter

	// WriteTimeout bounds each background write (default: 10s).
	WriteTimeout time.Duration

	// Logger for synchronizer activity (default: stderr logger).
	Logger *log.Logger

	// OnChange, if set, is invoked with every new snapshot, after it has
	// been installed. Called from whichever goroutine produced the
	// snapshot; keep it fast.
	OnChange func(board.State)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Role:         RoleAdmin,
		RefreshLimit: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		WriteTimeout: 10 * time.Second,
		Logger:       log.New(os.Stderr, "[sync] ", log.LstdFlags),
	}
}

// Synchronizer owns the board state and is its only writer.
// See the package documentation for the consistency model.
type Synchronizer struct {
	backend      Backend
	store        SnapshotStore
	role         Role
	offline      bool
	limiter      *rate.Limiter
	writeTimeout time.Duration
	logger       *log.Logger
	onChange     func(board.State)

	mu      gosync.Mutex
	state   board.State
	pending []PendingMutation

	writes gosync.WaitGroup
}

// New creates a Synchronizer.
//
// In online mode backend must be non-nil; in offline mode store must be.
// The synchronizer starts with an empty snapshot; call Refresh to load
// the first authoritative one.
func New(backend Backend, store SnapshotStore, config *Config) (*Synchronizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Offline && store == nil {
		return nil, fmt.Errorf("offline mode requires a snapshot store")
	}
	if !config.Offline && backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}

	role := config.Role
	if role == "" {
		role = RoleAdmin
	}
	limiter := config.RefreshLimit
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
	}
	writeTimeout := config.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}

	return &Synchronizer{
		backend:      backend,
		store:        store,
		role:         role,
		offline:      config.Offline,
		limiter:      limiter,
		writeTimeout: writeTimeout,
		logger:       logger,
		onChange:     config.OnChange,
		state:        board.State{},
	}, nil
}

// State returns the current snapshot. Snapshots are immutable; the caller
// may read it freely while the synchronizer installs newer ones.
func (s *Synchronizer) State() board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh fetches the authoritative item list, regroups it, and replaces
// the held snapshot wholesale. No field-level merging happens: residue
// from optimistic patches never survives a successful refresh.
//
// Errors propagate to the caller (check api.IsAuth / api.IsNetwork) and
// leave the prior snapshot in place, so transient failures never blank
// a board that was already displayed.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var (
		wire []api.ContentItem
		err  error
	)
	if s.offline {
		wire, err = s.store.Load()
	} else {
		wire, err = s.backend.ListContentItems(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch board: %w", err)
	}

	s.install(board.Group(api.Items(wire)))
	return nil
}

// Move applies a stage transition optimistically and issues the backend
// write in the background.
//
// Disallowed moves are quiet no-ops: a stale item ID, an item no longer
// in the expected source stage, or a transition the role may not make.
// These are UI-affordance violations, not errors. A same-stage move
// patches nothing and skips the backend entirely.
func (s *Synchronizer) Move(ctx context.Context, itemID string, from, to board.Stage) {
	s.mu.Lock()
	item, _, ok := s.state.Find(itemID)
	if !ok {
		s.mu.Unlock()
		s.logger.Printf("move %s: item not on board, ignoring", itemID)
		return
	}
	if item.Stage != from {
		s.mu.Unlock()
		s.logger.Printf("move %s: stale source stage %s (item is in %s), ignoring", itemID, from, item.Stage)
		return
	}
	if !CanDrag(s.role, from) || !CanMove(s.role, from, to) {
		s.mu.Unlock()
		s.logger.Printf("move %s: %s may not move %s -> %s, ignoring", itemID, s.role, from, to)
		return
	}

	next := s.state.WithStage(itemID, to)
	s.state = next
	s.mu.Unlock()
	s.notify(next)

	if from == to {
		return
	}

	if s.offline {
		if err := s.store.UpdateColumn(itemID, to.BackendLabel()); err != nil {
			s.logger.Printf("move %s: snapshot update failed: %v", itemID, err)
		}
		return
	}

	s.dispatch(ctx, PendingMutation{
		ItemID:   itemID,
		From:     from,
		To:       to,
		Kind:     MutationMove,
		IssuedAt: time.Now(),
	}, func(wctx context.Context) error {
		return s.backend.MoveContentItem(wctx, itemID, to.BackendLabel())
	})
}

// Schedule assigns a publish time to an item, moving it to the scheduled
// stage optimistically. Only items in client approval or finalized can be
// scheduled; anything else is a quiet no-op.
func (s *Synchronizer) Schedule(ctx context.Context, itemID string, at time.Time) {
	s.mu.Lock()
	item, _, ok := s.state.Find(itemID)
	if !ok {
		s.mu.Unlock()
		s.logger.Printf("schedule %s: item not on board, ignoring", itemID)
		return
	}
	from := item.Stage
	if !CanSchedule(s.role, from) {
		s.mu.Unlock()
		s.logger.Printf("schedule %s: %s may not schedule from %s, ignoring", itemID, s.role, from)
		return
	}

	next := s.state.WithStage(itemID, board.StageScheduled)
	s.state = next
	s.mu.Unlock()
	s.notify(next)

	iso := at.UTC().Format(time.RFC3339)

	if s.offline {
		if err := s.store.UpdateScheduled(itemID, board.StageScheduled.BackendLabel(), iso); err != nil {
			s.logger.Printf("schedule %s: snapshot update failed: %v", itemID, err)
		}
		return
	}

	s.dispatch(ctx, PendingMutation{
		ItemID:   itemID,
		From:     from,
		To:       board.StageScheduled,
		Kind:     MutationSchedule,
		IssuedAt: time.Now(),
	}, func(wctx context.Context) error {
		return s.backend.ScheduleContentItem(wctx, itemID, iso)
	})
}

// Approve records an approval decision on an item in client approval.
// Approving moves it to scheduled; revising sends it back to writing for
// another pass. Items outside client approval are quiet no-ops.
func (s *Synchronizer) Approve(ctx context.Context, itemID string, revise bool) {
	s.mu.Lock()
	item, _, ok := s.state.Find(itemID)
	if !ok {
		s.mu.Unlock()
		s.logger.Printf("approve %s: item not on board, ignoring", itemID)
		return
	}
	from := item.Stage
	if !CanApprove(s.role, from) {
		s.mu.Unlock()
		s.logger.Printf("approve %s: %s may not decide from %s, ignoring", itemID, s.role, from)
		return
	}

	target := board.StageScheduled
	action := "approve"
	if revise {
		target = board.StageWriting
		action = "revise"
	}

	next := s.state.WithStage(itemID, target)
	s.state = next
	s.mu.Unlock()
	s.notify(next)

	if s.offline {
		if err := s.store.UpdateColumn(itemID, target.BackendLabel()); err != nil {
			s.logger.Printf("approve %s: snapshot update failed: %v", itemID, err)
		}
		return
	}

	s.dispatch(ctx, PendingMutation{
		ItemID:   itemID,
		From:     from,
		To:       target,
		Kind:     MutationApprove,
		IssuedAt: time.Now(),
	}, func(wctx context.Context) error {
		return s.backend.ApproveContentItem(wctx, itemID, action)
	})
}

// Pending returns the mutations whose backend writes have not settled.
func (s *Synchronizer) Pending() []PendingMutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingMutation, len(s.pending))
	copy(out, s.pending)
	return out
}

// Wait blocks until all in-flight background writes have settled.
// One-shot CLI commands call this before exiting.
func (s *Synchronizer) Wait() {
	s.writes.Wait()
}

// install replaces the snapshot and fires the change hook.
func (s *Synchronizer) install(state board.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify(state)
}

func (s *Synchronizer) notify(state board.State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}

// dispatch runs a backend write in the background.
//
// The write gets its own timeout, detached from the caller's cancellation:
// an optimistic patch that is already visible should still be persisted
// even if the originating request context ends first. Failures are logged
// and intentionally swallowed; the optimistic state stands until the next
// refresh corrects it.
func (s *Synchronizer) dispatch(ctx context.Context, m PendingMutation, call func(context.Context) error) {
	s.mu.Lock()
	s.pending = append(s.pending, m)
	s.mu.Unlock()

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		defer s.removePending(m)

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()

		if err := call(wctx); err != nil {
			s.logger.Printf("%s %s (%s -> %s) failed: %v", m.Kind, m.ItemID, m.From, m.To, err)
		}
	}()
}

func (s *Synchronizer) removePending(m PendingMutation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pending {
		if s.pending[i] == m {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
