package board_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarviz/pipeboard/internal/board"
)

func TestGroupPartitionsByClient(t *testing.T) {
	items := []board.Item{
		{ID: "1", ClientID: "42", Stage: board.StageBacklog},
		{ID: "2", ClientID: "42", Stage: board.StageApproval},
		{ID: "3", ClientID: "7", Stage: board.StageWriting},
		{ID: "4", ClientID: "", Stage: board.StageDesign}, // no partition key
	}

	state := board.Group(items)

	require.Equal(t, []string{"42", "7"}, state.Partitions())
	require.Len(t, state.Items("42"), 2)
	require.Len(t, state.Items("7"), 1)
	require.Equal(t, 3, state.Len(), "item without a client must be excluded")
}

func TestGroupDropsDuplicateIDs(t *testing.T) {
	items := []board.Item{
		{ID: "1", ClientID: "42", Title: "first"},
		{ID: "1", ClientID: "42", Title: "second"},
	}

	state := board.Group(items)

	require.Len(t, state.Items("42"), 1)
	require.Equal(t, "first", state.Items("42")[0].Title)
}

func TestWithStagePatchesSingleItem(t *testing.T) {
	state := board.Group([]board.Item{
		{ID: "1", ClientID: "42", Stage: board.StageBacklog},
		{ID: "2", ClientID: "42", Stage: board.StageApproval},
	})

	next := state.WithStage("2", board.StageReview)

	// The new snapshot reflects the move.
	item, client, ok := next.Find("2")
	require.True(t, ok)
	require.Equal(t, "42", client)
	require.Equal(t, board.StageReview, item.Stage)

	// The prior snapshot is untouched.
	prev, _, _ := state.Find("2")
	require.Equal(t, board.StageApproval, prev.Stage)

	// Untouched items carry over.
	other, _, _ := next.Find("1")
	require.Equal(t, board.StageBacklog, other.Stage)
}

// A same-stage move must leave item content unchanged; a new snapshot
// reference is fine.
func TestWithStageSameStageIsNoOp(t *testing.T) {
	state := board.Group([]board.Item{
		{ID: "1", ClientID: "42", Stage: board.StageWriting, Title: "poster-08"},
	})

	next := state.WithStage("1", board.StageWriting)
	require.Equal(t, state, next)
}

func TestWithStageUnknownItem(t *testing.T) {
	state := board.Group([]board.Item{{ID: "1", ClientID: "42"}})
	next := state.WithStage("missing", board.StagePosted)
	require.Equal(t, state, next)
}

func TestItemsInStage(t *testing.T) {
	state := board.Group([]board.Item{
		{ID: "1", ClientID: "42", Stage: board.StageApproval, Title: "a"},
		{ID: "2", ClientID: "42", Stage: board.StageBacklog, Title: "b"},
		{ID: "3", ClientID: "42", Stage: board.StageApproval, Title: "c"},
	})

	got := state.ItemsInStage("42", board.StageApproval)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Title)
	require.Equal(t, "c", got[1].Title)
}

func TestFindMissing(t *testing.T) {
	state := board.Group(nil)
	_, _, ok := state.Find("1")
	require.False(t, ok)
}
