package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tarviz/pipeboard/internal/api"
	"github.com/tarviz/pipeboard/internal/board"
	"github.com/tarviz/pipeboard/internal/config"
	"github.com/tarviz/pipeboard/internal/offline"
	"github.com/tarviz/pipeboard/internal/sync"
)

var rootCmd = &cobra.Command{
	Use:   "pipeboard",
	Short: "Terminal client for the content pipeline board",
	Long: `pipeboard mirrors the agency content board in the terminal: fetch the
board, move items through the pipeline, schedule and approve posts, and
follow live updates as teammates work.

Moves apply locally before the backend confirms them, so the board stays
responsive; the next refresh reconciles anything the backend rejected.

Configuration lives in ` + config.FilePath() + ` (see "pipeboard config init"),
with PIPEBOARD_* environment variables and flags taking precedence.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var cfg *viper.Viper

func init() {
	cfg = viper.New()

	rootCmd.PersistentFlags().String("api-url", "", "backend base URL")
	rootCmd.PersistentFlags().String("token", "", "backend auth token")
	rootCmd.PersistentFlags().String("client-id", "", "client whose board to follow")
	rootCmd.PersistentFlags().String("role", "", "role for local move rules (admin, manager, content_writer, designer, client)")
	rootCmd.PersistentFlags().Bool("offline", false, "use the local snapshot file instead of the backend")
	rootCmd.PersistentFlags().String("snapshot", "", "offline snapshot file path")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a rotated file instead of stderr")

	cfg.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	cfg.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	cfg.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client-id"))
	cfg.BindPFlag("role", rootCmd.PersistentFlags().Lookup("role"))
	cfg.BindPFlag("offline", rootCmd.PersistentFlags().Lookup("offline"))
	cfg.BindPFlag("snapshot_path", rootCmd.PersistentFlags().Lookup("snapshot"))
	cfg.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// loadSettings resolves config file, environment, and flags into Settings.
func loadSettings() (config.Settings, error) {
	if err := config.Init(cfg); err != nil {
		return config.Settings{}, err
	}
	s, err := config.Load(cfg)
	if err != nil {
		return config.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

// buildSynchronizer wires a Synchronizer for the configured mode. The
// returned store is non-nil only in offline mode.
func buildSynchronizer(s config.Settings, logger *log.Logger, onChange func()) (*sync.Synchronizer, *offline.Store, error) {
	role, err := config.ParseRole(s.Role)
	if err != nil {
		return nil, nil, err
	}

	syncConfig := sync.DefaultConfig()
	syncConfig.Role = role
	syncConfig.Offline = s.Offline
	syncConfig.Logger = logger
	if onChange != nil {
		syncConfig.OnChange = func(board.State) { onChange() }
	}

	if s.Offline {
		store, err := offline.NewStore(s.SnapshotPath)
		if err != nil {
			return nil, nil, err
		}
		syn, err := sync.New(nil, store, syncConfig)
		if err != nil {
			return nil, nil, err
		}
		return syn, store, nil
	}

	apiConfig := api.DefaultConfig()
	apiConfig.BaseURL = s.APIURL
	apiConfig.Token = s.Token
	apiConfig.Logger = logger
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, nil, err
	}
	syn, err := sync.New(client, nil, syncConfig)
	if err != nil {
		return nil, nil, err
	}
	return syn, nil, nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
