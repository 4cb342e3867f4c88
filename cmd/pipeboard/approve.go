package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/board"
	"github.com/tarviz/pipeboard/internal/config"
)

var approveCmd = &cobra.Command{
	Use:   "approve <item-id>",
	Short: "Record an approval decision on an item",
	Long: `Decide on an item waiting in client approval. Approving schedules it
for publishing; requesting revisions sends it back to content writing.

Without --action, an interactive prompt asks for the decision.

Example usage:
  pipeboard approve 128                    # prompt for the decision
  pipeboard approve 128 --action approve
  pipeboard approve 128 --action revise`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID := args[0]
		action, _ := cmd.Flags().GetString("action")

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
		if item.Stage != board.StageApproval {
			fatalf("item %q is in %s, not client approval", item.Title, item.Stage)
		}

		if action == "" {
			action, err = promptDecision(item)
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return
				}
				fatalf("%v", err)
			}
		}

		var revise bool
		switch action {
		case "approve":
			revise = false
		case "revise":
			revise = true
		default:
			fatalf("unknown action %q (valid: approve, revise)", action)
		}

		syn.Approve(ctx, itemID, revise)
		syn.Wait()

		if revise {
			fmt.Printf("Sent %q back for revisions\n", item.Title)
		} else {
			fmt.Printf("Approved %q; it is now scheduled\n", item.Title)
		}
	},
}

func promptDecision(item board.Item) (string, error) {
	var action string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Decision for %q", item.Title)).
		Options(
			huh.NewOption("Approve and schedule", "approve"),
			huh.NewOption("Request revisions", "revise"),
		).
		Value(&action).
		Run()
	if err != nil {
		return "", err
	}
	return action, nil
}

func init() {
	approveCmd.Flags().String("action", "", "decision to record (approve or revise)")
	rootCmd.AddCommand(approveCmd)
}
