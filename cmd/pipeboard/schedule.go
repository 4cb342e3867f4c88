package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/board"
	"github.com/tarviz/pipeboard/internal/config"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <item-id> <when...>",
	Short: "Schedule an item for publishing",
	Long: `Assign a publish time to an item and move it to the scheduled column.

The time can be RFC 3339 or natural language. Only items in client approval
or finalized can be scheduled.

Example usage:
  pipeboard schedule 128 2026-09-06T17:00:00Z
  pipeboard schedule 128 tomorrow at 5pm
  pipeboard schedule 128 next friday 10am`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		itemID := args[0]
		at, err := parseWhen(strings.Join(args[1:], " "))
		if err != nil {
			fatalf("%v", err)
		}
		if at.Before(time.Now()) {
			fatalf("publish time %s is in the past", at.Format(time.RFC3339))
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

		syn.Schedule(ctx, itemID, at)
		syn.Wait()

		scheduled, _, _ := syn.State().Find(itemID)
		if scheduled.Stage != board.StageScheduled {
			fatalf("schedule refused: item %s is in %s (must be in approval or finalized)", itemID, item.Stage)
		}
		fmt.Printf("Scheduled %q for %s\n", item.Title, at.Local().Format("Mon Jan 2 15:04"))
	},
}

// parseWhen accepts RFC 3339 first, then falls back to natural language.
func parseWhen(text string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(text, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", text, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("could not understand time %q (try RFC 3339 or e.g. \"tomorrow at 5pm\")", text)
	}
	return result.Time, nil
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
