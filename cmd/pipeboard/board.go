package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/config"
	"github.com/tarviz/pipeboard/internal/ui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Fetch and print the board once",
	Long: `Fetch the board and print it, one section per client, columns in
pipeline order.

Example usage:
  pipeboard board                  # full board
  pipeboard board --client-id 42   # limit to one client's section
  pipeboard board --offline        # read the local snapshot instead`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadSettings()
		if err != nil {
			fatalf("%v", err)
		}

		logger := config.NewLogger(s.LogFile)
		syn, _, err := buildSynchronizer(s, logger, nil)
		if err != nil {
			fatalf("%v", err)
		}

		if err := syn.Refresh(context.Background()); err != nil {
			fatalf("%v", err)
		}

		renderer := ui.NewRenderer(rendererConfig(cmd))
		state := syn.State()
		if s.ClientID != "" {
			fmt.Print(renderer.RenderPartition(state, s.ClientID))
			return
		}
		fmt.Print(renderer.RenderBoard(state))
	},
}

func rendererConfig(cmd *cobra.Command) ui.Config {
	rc := ui.DefaultConfig()
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		rc.NoColor = true
	}
	return rc
}

func init() {
	boardCmd.Flags().Bool("no-color", false, "disable styled output")
	rootCmd.AddCommand(boardCmd)
}
