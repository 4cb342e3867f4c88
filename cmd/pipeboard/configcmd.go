package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/config"
	"github.com/tarviz/pipeboard/internal/offline"
	"github.com/tarviz/pipeboard/internal/sync"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pipeboard configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter config file to ` + config.FilePath() + `.

With --demo, a demo board snapshot is written alongside it and the config
starts in offline mode, so the board works immediately without a backend.

Example usage:
  pipeboard config init --api-url https://app.example.com/api --token <token>
  pipeboard config init --demo`,
	Run: func(cmd *cobra.Command, args []string) {
		demo, _ := cmd.Flags().GetBool("demo")
		force, _ := cmd.Flags().GetBool("force")

		path := config.FilePath()
		if _, err := os.Stat(path); err == nil && !force {
			fatalf("%s already exists (use --force to overwrite)", path)
		}

		apiURL, _ := cmd.Flags().GetString("api-url")
		token, _ := cmd.Flags().GetString("token")
		clientID, _ := cmd.Flags().GetString("client-id")
		role, _ := cmd.Flags().GetString("role")
		if role == "" {
			role = string(sync.RoleManager)
		}
		if _, err := config.ParseRole(role); err != nil {
			fatalf("%v", err)
		}

		s := config.Settings{
			APIURL:       apiURL,
			Token:        token,
			ClientID:     clientID,
			Role:         role,
			Offline:      demo,
			SnapshotPath: config.DefaultSnapshotPath(),
		}

		if demo {
			store, err := offline.NewStore(s.SnapshotPath)
			if err != nil {
				fatalf("%v", err)
			}
			if err := store.Save(offline.DemoItems()); err != nil {
				fatalf("%v", err)
			}
			if s.ClientID == "" {
				s.ClientID = "42"
			}
			fmt.Printf("Wrote demo board to %s\n", s.SnapshotPath)
		}

		if err := config.WriteFile(path, s); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote config to %s\n", path)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FilePath())
	},
}

func init() {
	configInitCmd.Flags().String("api-url", "", "backend base URL to record")
	configInitCmd.Flags().String("token", "", "auth token to record")
	configInitCmd.Flags().String("client-id", "", "default client to follow")
	configInitCmd.Flags().String("role", "", "role to record (default: manager)")
	configInitCmd.Flags().Bool("demo", false, "seed a demo board and start offline")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
