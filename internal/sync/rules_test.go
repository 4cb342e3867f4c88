package sync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarviz/pipeboard/internal/board"
)

func TestCanMove(t *testing.T) {
	cases := []struct {
		role Role
		from board.Stage
		to   board.Stage
		want bool
	}{
		// Admin moves anything.
		{RoleAdmin, board.StageBacklog, board.StagePosted, true},
		{RoleAdmin, board.StagePosted, board.StageBacklog, true},

		// Manager moves anything, same as admin.
		{RoleManager, board.StageBacklog, board.StageWriting, true},
		{RoleManager, board.StageReview, board.StageApproval, true},
		{RoleManager, board.StageWriting, board.StageDesign, true},
		{RoleManager, board.StagePosted, board.StageBacklog, true},

		// Writer and designer advance their own stage only.
		{RoleWriter, board.StageWriting, board.StageDesign, true},
		{RoleWriter, board.StageDesign, board.StageReview, false},
		{RoleDesigner, board.StageDesign, board.StageReview, true},
		{RoleDesigner, board.StageBacklog, board.StageWriting, false},

		// Client decides from approval only.
		{RoleClient, board.StageApproval, board.StageScheduled, true},
		{RoleClient, board.StageApproval, board.StageReview, true},
		{RoleClient, board.StageApproval, board.StagePosted, false},
		{RoleClient, board.StageBacklog, board.StageWriting, false},

		// Same-stage moves are always fine (no-op patches).
		{RoleClient, board.StageBacklog, board.StageBacklog, true},
	}

	for _, tc := range cases {
		got := CanMove(tc.role, tc.from, tc.to)
		require.Equal(t, tc.want, got, "%s: %s -> %s", tc.role, tc.from, tc.to)
	}
}

func TestCanDrag(t *testing.T) {
	require.True(t, CanDrag(RoleAdmin, board.StageBacklog))
	require.True(t, CanDrag(RoleDesigner, board.StageDesign))
	require.True(t, CanDrag(RoleClient, board.StageApproval))
	require.False(t, CanDrag(RoleClient, board.StageBacklog))
	require.False(t, CanDrag(RoleClient, board.StageScheduled))
}

func TestCanSchedule(t *testing.T) {
	require.True(t, CanSchedule(RoleAdmin, board.StageApproval))
	require.True(t, CanSchedule(RoleManager, board.StageFinalized))
	require.True(t, CanSchedule(RoleClient, board.StageApproval))
	require.False(t, CanSchedule(RoleWriter, board.StageApproval))
	require.False(t, CanSchedule(RoleAdmin, board.StageBacklog))
	require.False(t, CanSchedule(RoleAdmin, board.StageScheduled))
}

func TestCanApprove(t *testing.T) {
	require.True(t, CanApprove(RoleClient, board.StageApproval))
	require.True(t, CanApprove(RoleManager, board.StageApproval))
	require.False(t, CanApprove(RoleDesigner, board.StageApproval))
	require.False(t, CanApprove(RoleClient, board.StageReview))
}
