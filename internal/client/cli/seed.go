package cli

import (
	"context"
	"fmt"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
)

// seed loads the built-in demo profiles into the local cache so the board
// can be explored without a backend.
func (a *App) seed(ctx context.Context) {
	offline, ok := a.store.(*remote.OfflineStore)
	if !ok {
		fmt.Println("Seeding only makes sense in offline mode")
		return
	}

	if err := offline.SeedDemo(ctx); err != nil {
		fmt.Println("Seeding failed:", err)
		return
	}

	fmt.Printf("Demo data loaded: %d profiles. Try 'login' with alice.johnson@company.com\n",
		len(models.DemoProfiles()))
}
