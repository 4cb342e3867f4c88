// Package board provides the data model for the content pipeline board.
package board

import "fmt"

// Stage represents a pipeline stage (a board column).
//
// Items progress through the stages in order, from backlog to posted.
// The set is fixed: an item is always in exactly one of these stages.
type Stage int

const (
	// StageBacklog holds items that have not entered production yet.
	StageBacklog Stage = iota
	// StageWriting is the content-writing stage.
	StageWriting
	// StageDesign is the design/creative stage.
	StageDesign
	// StageReview is the internal agency review stage.
	StageReview
	// StageApproval is the client approval stage.
	StageApproval
	// StageFinalized holds items approved and prepared for publishing.
	StageFinalized
	// StageScheduled holds items with a confirmed publish time.
	StageScheduled
	// StagePosted holds items that have been published.
	StagePosted
)

// stageNames maps stages to their short names, in pipeline order.
var stageNames = [...]string{
	StageBacklog:   "backlog",
	StageWriting:   "writing",
	StageDesign:    "design",
	StageReview:    "review",
	StageApproval:  "approval",
	StageFinalized: "finalized",
	StageScheduled: "scheduled",
	StagePosted:    "posted",
}

// backendLabels maps stages to the labels the backend stores in its
// column field. Both directions of the mapping are derived from this table.
var backendLabels = [...]string{
	StageBacklog:   "backlog",
	StageWriting:   "content_writing",
	StageDesign:    "design_creative",
	StageReview:    "internal_review",
	StageApproval:  "client_approval",
	StageFinalized: "finalized",
	StageScheduled: "scheduled",
	StagePosted:    "posted",
}

// String returns the stage's short name.
func (s Stage) String() string {
	if s < StageBacklog || s > StagePosted {
		return "unknown"
	}
	return stageNames[s]
}

// DisplayName returns the stage name shown in board headers.
func (s Stage) DisplayName() string {
	switch s {
	case StageBacklog:
		return "Backlog"
	case StageWriting:
		return "Content Writing"
	case StageDesign:
		return "Design/Creative"
	case StageReview:
		return "Internal Review"
	case StageApproval:
		return "Client Approval"
	case StageFinalized:
		return "Finalized"
	case StageScheduled:
		return "Scheduled"
	case StagePosted:
		return "Posted"
	default:
		return "Unknown"
	}
}

// BackendLabel returns the backend-native column label for the stage.
func (s Stage) BackendLabel() string {
	if s < StageBacklog || s > StagePosted {
		return backendLabels[StageBacklog]
	}
	return backendLabels[s]
}

// Stages returns all stages in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageBacklog,
		StageWriting,
		StageDesign,
		StageReview,
		StageApproval,
		StageFinalized,
		StageScheduled,
		StagePosted,
	}
}

// StageFromLabel maps a backend-native column label to a Stage.
//
// The mapping is total: unrecognized labels (including legacy columns the
// backend may still emit) fall back to StageBacklog instead of failing, so
// one malformed item never blocks the whole board from rendering.
func StageFromLabel(label string) Stage {
	for s, l := range backendLabels {
		if l == label {
			return Stage(s)
		}
	}
	return StageBacklog
}

// ParseStage parses a stage short name as used on the CLI.
//
// Unlike StageFromLabel this is strict: it returns an error for names
// outside the fixed set, since a mistyped stage argument should not be
// silently coerced to backlog.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return Stage(s), nil
		}
	}
	return StageBacklog, fmt.Errorf("unknown stage %q (valid: %s)", name, stageList())
}

func stageList() string {
	out := ""
	for i, n := range stageNames {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
