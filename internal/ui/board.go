// Package ui renders board state for the terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tarviz/pipeboard/internal/board"
)

const (
	minColumnWidth = 22
	columnGap      = 1
	fallbackWidth  = 120
)

// Config holds settings for the board renderer.
type Config struct {
	// Width is the terminal width in cells. If zero, the width is
	// detected from stdout, falling back to a fixed default.
	Width int

	// NoColor disables styling entirely.
	NoColor bool
}

// DefaultConfig returns a Config with the terminal width detected.
func DefaultConfig() Config {
	config := Config{Width: fallbackWidth}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		config.Width = w
	}
	if termenv.EnvNoColor() {
		config.NoColor = true
	}
	return config
}

// Renderer renders board snapshots as columned text.
type Renderer struct {
	config Config

	header   lipgloss.Style
	colTitle lipgloss.Style
	colBox   lipgloss.Style
	card     lipgloss.Style
	meta     lipgloss.Style
	badge    lipgloss.Style
	overdue  lipgloss.Style
	empty    lipgloss.Style
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Width <= 0 {
		config.Width = fallbackWidth
	}

	r := &Renderer{config: config}
	if config.NoColor {
		r.header = lipgloss.NewStyle()
		r.colTitle = lipgloss.NewStyle()
		r.colBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
		r.card = lipgloss.NewStyle()
		r.meta = lipgloss.NewStyle()
		r.badge = lipgloss.NewStyle()
		r.overdue = lipgloss.NewStyle()
		r.empty = lipgloss.NewStyle()
		return r
	}

	r.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	r.colTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	r.colBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	r.card = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	r.meta = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	r.badge = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	r.overdue = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	r.empty = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	return r
}

// RenderBoard renders every partition of the given snapshot.
func (r *Renderer) RenderBoard(state board.State) string {
	partitions := state.Partitions()
	if len(partitions) == 0 {
		return r.empty.Render("no board items") + "\n"
	}

	var sb strings.Builder
	for i, partition := range partitions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.RenderPartition(state, partition))
	}
	return sb.String()
}

// RenderPartition renders one client's columns. Stages are laid out left
// to right and wrapped into rows when the terminal is too narrow.
func (r *Renderer) RenderPartition(state board.State, partition string) string {
	items := state.Items(partition)

	title := partition
	for _, item := range items {
		if item.Client != "" {
			title = item.Client
			break
		}
	}

	var sb strings.Builder
	sb.WriteString(r.header.Render(fmt.Sprintf("%s (%d items)", title, len(items))))
	sb.WriteString("\n")

	stages := board.Stages()
	perRow := r.columnsPerRow(len(stages))
	colWidth := (r.config.Width-columnGap*(perRow-1))/perRow - 2

	for start := 0; start < len(stages); start += perRow {
		end := start + perRow
		if end > len(stages) {
			end = len(stages)
		}
		cols := make([]string, 0, end-start)
		for _, stage := range stages[start:end] {
			cols = append(cols, r.renderColumn(stage, state.ItemsInStage(partition, stage), colWidth))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) columnsPerRow(total int) int {
	per := r.config.Width / (minColumnWidth + columnGap)
	if per < 1 {
		per = 1
	}
	if per > total {
		per = total
	}
	return per
}

func (r *Renderer) renderColumn(stage board.Stage, items []board.Item, width int) string {
	var sb strings.Builder
	sb.WriteString(r.colTitle.Render(fmt.Sprintf("%s (%d)", stage.DisplayName(), len(items))))

	if len(items) == 0 {
		sb.WriteString("\n")
		sb.WriteString(r.empty.Render("–"))
	}
	for _, item := range items {
		sb.WriteString("\n")
		sb.WriteString(r.renderCard(item, width))
	}

	return r.colBox.Width(width).Render(sb.String())
}

func (r *Renderer) renderCard(item board.Item, width int) string {
	title := item.Title
	if item.UnreadComments > 0 {
		title = fmt.Sprintf("%s %s", title, r.badge.Render(fmt.Sprintf("(%d)", item.UnreadComments)))
	}

	var meta []string
	if item.DueDate != "" {
		meta = append(meta, "due "+item.DueDate)
	}
	if item.Priority != "" {
		meta = append(meta, item.Priority)
	}
	if item.AssignedTo != "" {
		meta = append(meta, "@"+item.AssignedTo)
	}
	if len(item.Platforms) > 0 {
		meta = append(meta, strings.Join(item.Platforms, "/"))
	}

	card := r.card.Render("• " + title)
	if len(meta) > 0 {
		card += "\n" + r.meta.Render("  "+strings.Join(meta, " · "))
	}
	return card
}

// RenderStatus renders the one-line footer shown below a live board.
func (r *Renderer) RenderStatus(connection string, pending int) string {
	parts := []string{connection}
	if pending > 0 {
		parts = append(parts, fmt.Sprintf("%d write(s) in flight", pending))
	}
	return r.meta.Render(strings.Join(parts, " · "))
}
