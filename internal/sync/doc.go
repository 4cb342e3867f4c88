// Package sync provides the board synchronizer: it keeps an in-memory
// content pipeline board consistent across local optimistic mutations,
// server-authoritative snapshots, and asynchronous push notifications.
//
// Overview
//
// The synchronizer owns one board.State at a time and is its only writer.
// Two paths produce new snapshots:
//
//	Backend (REST)                     Caller (CLI / renderer)
//	     │ ListContentItems                 │ Move / Schedule / Approve
//	     ▼                                  ▼
//	  Refresh ──► wholesale replace      optimistic single-item patch
//	     │                                  │
//	     └────────────► board.State ◄───────┘
//	                        │
//	                    OnChange hook
//
// Refresh replaces the held snapshot wholesale, making server truth
// authoritative after every fetch. Mutations patch the snapshot
// synchronously so callers see the change immediately, then issue the
// backend write in the background.
//
// Convergence
//
// A failed background write is logged and NOT rolled back: the divergence
// is bounded by the next successful Refresh, which overwrites the
// optimistic patch with whatever the server decided. The live listener
// (package live) triggers these refreshes whenever the server pushes a
// relevant event, so divergence windows are short in practice.
//
// No ordering guarantee exists across rapid mutations of the same item;
// the last local call wins until the next refresh settles the matter.
//
// Usage
//
//	client, err := api.NewClient(&api.Config{BaseURL: url, Token: token})
//	if err != nil {
//	    return err
//	}
//
//	syn, err := sync.New(client, nil, &sync.Config{Role: sync.RoleManager})
//	if err != nil {
//	    return err
//	}
//
//	if err := syn.Refresh(ctx); err != nil {
//	    return err // prior snapshot, if any, is still readable
//	}
//
//	syn.Move(ctx, "7", board.StageReview, board.StageApproval)
//	syn.Wait() // block until background writes settle (CLI one-shots)
//
// Offline mode
//
// With Config.Offline set, Refresh loads from a local snapshot store and
// writes apply to it directly; no network is touched. Package offline
// provides the file-backed store and a change watcher that stands in for
// the live listener.
package sync
