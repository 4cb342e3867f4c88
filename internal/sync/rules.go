package sync

import "github.com/tarviz/pipeboard/internal/board"

// Role identifies what kind of user is driving the board. The backend
// enforces the same transition rules server-side; the local copy exists
// so disallowed drags are rejected as quiet no-ops before any network
// call, mirroring the drag/drop affordances of the web dashboards.
type Role string

const (
	// RoleAdmin may move any item anywhere.
	RoleAdmin Role = "admin"
	// RoleManager may move any item anywhere, same as RoleAdmin; the
	// roles differ in backend surfaces outside this client's scope.
	RoleManager Role = "manager"
	// RoleWriter passes finished copy to design.
	RoleWriter Role = "content_writer"
	// RoleDesigner passes finished creative to internal review.
	RoleDesigner Role = "designer"
	// RoleClient decides on items in client approval only.
	RoleClient Role = "client"
)

// CanDrag reports whether the role may originate a move from the given
// stage at all. Agency roles can pick up anything (the transition table
// still constrains where it lands); clients can only pick up items
// awaiting their approval.
func CanDrag(role Role, from board.Stage) bool {
	if role == RoleClient {
		return from == board.StageApproval
	}
	return true
}

// CanMove reports whether the role may move an item between the two
// stages. A same-stage "move" is always allowed; it is a no-op patch.
func CanMove(role Role, from, to board.Stage) bool {
	if from == to {
		return true
	}

	switch role {
	case RoleAdmin, RoleManager:
		return true
	case RoleWriter:
		return from == board.StageWriting && to == board.StageDesign
	case RoleDesigner:
		return from == board.StageDesign && to == board.StageReview
	case RoleClient:
		// Approve forward to scheduled, or send back for another
		// internal review pass.
		return from == board.StageApproval &&
			(to == board.StageScheduled || to == board.StageReview)
	default:
		return false
	}
}

// CanSchedule reports whether the role may schedule an item currently in
// the given stage. Scheduling is only meaningful once an item has cleared
// (or is clearing) client approval.
func CanSchedule(role Role, from board.Stage) bool {
	if from != board.StageApproval && from != board.StageFinalized {
		return false
	}
	switch role {
	case RoleAdmin, RoleManager, RoleClient:
		return true
	default:
		return false
	}
}

// CanApprove reports whether the role may record an approval decision on
// an item in the given stage.
func CanApprove(role Role, from board.Stage) bool {
	if from != board.StageApproval {
		return false
	}
	return role == RoleAdmin || role == RoleManager || role == RoleClient
}
