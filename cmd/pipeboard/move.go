package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/board"
	"github.com/tarviz/pipeboard/internal/config"
)

var moveCmd = &cobra.Command{
	Use:   "move <item-id> <stage>",
	Short: "Move an item to another pipeline stage",
	Long: `Move an item to another pipeline stage.

Stages: backlog, writing, design, review, approval, finalized, scheduled,
posted. Your role decides which transitions are allowed; a disallowed move
is refused locally without hitting the backend.

Example usage:
  pipeboard move 128 review         # send item 128 to internal review
  pipeboard move 128 approval --role manager`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		itemID := args[0]
		to, err := board.ParseStage(args[1])
		if err != nil {
			fatalf("%v", err)
		}

		s, err := loadSettings()
		if err != nil {
			fatalf("%v", err)
		}

		logger := config.NewLogger(s.LogFile)
		syn, _, err := buildSynchronizer(s, logger, nil)
		if err != nil {
			fatalf("%v", err)
		}

		ctx := context.Background()
		if err := syn.Refresh(ctx); err != nil {
			fatalf("%v", err)
		}

		item, _, ok := syn.State().Find(itemID)
		if !ok {
			fatalf("item %s not on the board", itemID)
		}

		syn.Move(ctx, itemID, item.Stage, to)
		syn.Wait()

		moved, _, _ := syn.State().Find(itemID)
		if moved.Stage != to {
			fatalf("move refused: %s may not move %s from %s to %s", s.Role, itemID, item.Stage, to)
		}
		fmt.Printf("Moved %q: %s -> %s\n", item.Title, item.Stage, to)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
