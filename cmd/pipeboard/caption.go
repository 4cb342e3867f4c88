package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/caption"
	"github.com/tarviz/pipeboard/internal/config"
)

var captionCmd = &cobra.Command{
	Use:   "caption <item-id>",
	Short: "Draft a post caption for an item",
	Long: `Generate a post caption for an item from its title, platforms, and
creative copy. Requires anthropic_api_key in the config (or
PIPEBOARD_ANTHROPIC_API_KEY).

The caption is printed, not saved; paste it into the item when it is ready.

Example usage:
  pipeboard caption 128
  pipeboard caption 128 --brief "launch weekend push, playful tone"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID := args[0]
		brief, _ := cmd.Flags().GetString("brief")

		s, err := loadSettings()
		if err != nil {
			fatalf("%v", err)
		}
		if s.AnthropicAPIKey == "" {
			fatalf("anthropic_api_key is required for caption generation (set it in %s or PIPEBOARD_ANTHROPIC_API_KEY)", config.FilePath())
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

		genConfig := caption.DefaultConfig()
		genConfig.APIKey = s.AnthropicAPIKey
		gen, err := caption.NewGenerator(genConfig)
		if err != nil {
			fatalf("%v", err)
		}

		text, err := gen.Generate(ctx, item, brief)
		if err != nil {
			fatalf("%v", err)
		}

		fmt.Printf("Caption for %q:\n\n%s\n", item.Title, text)
	},
}

func init() {
	captionCmd.Flags().String("brief", "", "extra campaign context for the caption")
	rootCmd.AddCommand(captionCmd)
}
