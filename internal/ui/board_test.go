package ui

import (
	"strings"
	"testing"

	"github.com/tarviz/pipeboard/internal/board"
)

func testState() board.State {
	return board.Group([]board.Item{
		{
			ID: "1", ClientID: "42", Stage: board.StageBacklog,
			Title: "poster-08", Client: "Nova Retail",
			DueDate: "2026-09-05", Priority: "high", Platforms: []string{"instagram"},
		},
		{
			ID: "2", ClientID: "42", Stage: board.StageApproval,
			Title: "story-12", Client: "Nova Retail",
			AssignedTo: "Maya", UnreadComments: 3,
		},
		{
			ID: "3", ClientID: "7", Stage: board.StageWriting,
			Title: "reel-03", Client: "Brew & Co",
		},
	})
}

func TestRenderBoardContainsItems(t *testing.T) {
	r := NewRenderer(Config{Width: 200, NoColor: true})
	out := r.RenderBoard(testState())

	for _, want := range []string{
		"Nova Retail (2 items)",
		"Brew & Co (1 items)",
		"poster-08",
		"story-12",
		"reel-03",
		"due 2026-09-05",
		"high",
		"@Maya",
		"(3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBoardShowsAllStages(t *testing.T) {
	r := NewRenderer(Config{Width: 200, NoColor: true})
	out := r.RenderBoard(testState())

	for _, stage := range board.Stages() {
		if !strings.Contains(out, stage.DisplayName()) {
			t.Errorf("output missing column %q", stage.DisplayName())
		}
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	r := NewRenderer(Config{Width: 80, NoColor: true})
	out := r.RenderBoard(board.State{})

	if !strings.Contains(out, "no board items") {
		t.Errorf("expected empty-board message, got:\n%s", out)
	}
}

func TestRenderPartitionNarrowWidthWraps(t *testing.T) {
	r := NewRenderer(Config{Width: 50, NoColor: true})
	out := r.RenderPartition(testState(), "42")

	// Two columns per row at width 50, so the stage header rows stack.
	if !strings.Contains(out, "Backlog") || !strings.Contains(out, "Posted") {
		t.Errorf("expected first and last stages present:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 8 {
		t.Errorf("expected wrapped rows on narrow terminal, got %d lines", lines)
	}
}

func TestRenderStatus(t *testing.T) {
	r := NewRenderer(Config{NoColor: true})

	if got := r.RenderStatus("live", 0); got != "live" {
		t.Errorf("RenderStatus() = %q", got)
	}
	got := r.RenderStatus("reconnecting", 2)
	if !strings.Contains(got, "reconnecting") || !strings.Contains(got, "2 write(s) in flight") {
		t.Errorf("RenderStatus() = %q", got)
	}
}
