package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tarviz/pipeboard/internal/config"
	"github.com/tarviz/pipeboard/internal/live"
	"github.com/tarviz/pipeboard/internal/offline"
	"github.com/tarviz/pipeboard/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the board live",
	Long: `Fetch the board and keep it current: teammate activity arrives over
the event channel and triggers a refresh, with bursts coalesced so a flurry
of edits redraws once.

In offline mode the snapshot file is watched instead, so editing it in
another terminal redraws the board the same way.

Example usage:
  pipeboard watch --client-id 42
  pipeboard watch --offline

Press Ctrl+C to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadSettings()
		if err != nil {
			fatalf("%v", err)
		}

		logger := config.NewLogger(s.LogFile)
		renderer := ui.NewRenderer(rendererConfig(cmd))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var connection atomic.Value
		connection.Store("starting")

		synchronizer, store, err := buildSynchronizer(s, logger, nil)
		if err != nil {
			fatalf("%v", err)
		}

		redraw := func() {
			state := synchronizer.State()
			var sb strings.Builder
			sb.WriteString("\033[H\033[2J") // clear screen
			if s.ClientID != "" {
				sb.WriteString(renderer.RenderPartition(state, s.ClientID))
			} else {
				sb.WriteString(renderer.RenderBoard(state))
			}
			sb.WriteString(renderer.RenderStatus(connection.Load().(string), len(synchronizer.Pending())))
			sb.WriteString("\n")
			fmt.Print(sb.String())
		}

		converge := func() {
			if err := synchronizer.Refresh(ctx); err != nil {
				logger.Printf("refresh failed: %v", err)
				return
			}
			redraw()
		}

		if err := synchronizer.Refresh(ctx); err != nil {
			fatalf("%v", err)
		}

		if s.Offline {
			connection.Store("offline")
			watcherConfig := offline.DefaultWatcherConfig()
			watcherConfig.Logger = logger
			watcher, err := offline.NewWatcher(store.Path(), watcherConfig)
			if err != nil {
				fatalf("%v", err)
			}
			if err := watcher.Start(converge); err != nil {
				fatalf("%v", err)
			}
			defer watcher.Stop()
		} else {
			liveConfig := live.DefaultConfig()
			liveConfig.URL = s.ResolveEventsURL()
			liveConfig.Token = s.Token
			liveConfig.ClientID = s.ClientID
			liveConfig.Logger = logger
			liveConfig.OnStatus = func(status live.Status) {
				connection.Store(status.String())
				redraw()
			}
			listener, err := live.New(liveConfig)
			if err != nil {
				fatalf("%v", err)
			}
			if err := listener.Start(converge); err != nil {
				fatalf("%v", err)
			}
			defer listener.Close()
			if s.ClientID == "" {
				connection.Store("live updates off (no client-id)")
			}
		}

		redraw()
		<-ctx.Done()
		fmt.Println()
		synchronizer.Wait()
	},
}

func init() {
	watchCmd.Flags().Bool("no-color", false, "disable styled output")
	rootCmd.AddCommand(watchCmd)
}
