package board_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarviz/pipeboard/internal/board"
)

func TestStageFromLabel(t *testing.T) {
	cases := []struct {
		label string
		want  board.Stage
	}{
		{"backlog", board.StageBacklog},
		{"content_writing", board.StageWriting},
		{"design_creative", board.StageDesign},
		{"internal_review", board.StageReview},
		{"client_approval", board.StageApproval},
		{"finalized", board.StageFinalized},
		{"scheduled", board.StageScheduled},
		{"posted", board.StagePosted},

		// Unknown labels fall back to backlog rather than failing.
		{"ready", board.StageBacklog},
		{"revise_needed", board.StageBacklog},
		{"", board.StageBacklog},
		{"WRITING", board.StageBacklog},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, board.StageFromLabel(tc.label), "label %q", tc.label)
	}
}

// TestStageLabelRoundTrip verifies that every stage survives a trip through
// the backend label and back.
func TestStageLabelRoundTrip(t *testing.T) {
	for _, s := range board.Stages() {
		require.Equal(t, s, board.StageFromLabel(s.BackendLabel()), "stage %s", s)
	}
}

func TestParseStage(t *testing.T) {
	s, err := board.ParseStage("approval")
	require.NoError(t, err)
	require.Equal(t, board.StageApproval, s)

	_, err = board.ParseStage("client_approval")
	require.Error(t, err, "backend labels are not CLI stage names")

	_, err = board.ParseStage("nonsense")
	require.Error(t, err)
}

func TestStageStrings(t *testing.T) {
	require.Equal(t, "writing", board.StageWriting.String())
	require.Equal(t, "Client Approval", board.StageApproval.DisplayName())
	require.Equal(t, "unknown", board.Stage(42).String())
	require.Equal(t, "backlog", board.Stage(42).BackendLabel())
}
