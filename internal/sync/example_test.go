package sync_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tarviz/pipeboard/internal/api"
	"github.com/tarviz/pipeboard/internal/board"
	"github.com/tarviz/pipeboard/internal/sync"
)

// ExampleSynchronizer demonstrates the optimistic-then-converge flow
// against a real backend.
func ExampleSynchronizer() {
	client, err := api.NewClient(&api.Config{
		BaseURL: "http://localhost:8000/api",
		Token:   "eyJ...",
	})
	if err != nil {
		log.Fatal(err)
	}

	syn, err := sync.New(client, nil, &sync.Config{
		Role: sync.RoleManager,
		OnChange: func(state board.State) {
			fmt.Printf("board now has %d items\n", state.Len())
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// First authoritative snapshot.
	if err := syn.Refresh(ctx); err != nil {
		log.Fatal(err)
	}

	// Optimistic move: visible immediately, persisted in the background.
	syn.Move(ctx, "7", board.StageReview, board.StageApproval)

	// Schedule an approved item for tomorrow evening.
	syn.Schedule(ctx, "9", time.Now().Add(24*time.Hour))

	// Let background writes settle before exiting.
	syn.Wait()
}
