package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dkazakov/treeboard/internal/common"
)

// missionsProgress refreshes and prints the decorate-N-trees mission.
func (a *App) missionsProgress(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Log in first")
		return
	}

	count, err := a.missions.Refresh(ctx)
	if err != nil {
		fmt.Println("Cannot check missions right now:", err)
		return
	}

	a.state.SetMissionsOpened()

	done := count
	if done > common.MissionTarget {
		done = common.MissionTarget
	}
	bar := strings.Repeat("●", done) + strings.Repeat("○", common.MissionTarget-done)

	fmt.Fprintf(color.Output, "Holiday mission: decorate %d different trees\n", common.MissionTarget)
	fmt.Fprintf(color.Output, "  %s  %d/%d\n", bar, done, common.MissionTarget)
	if a.missions.Unlocked() {
		fmt.Fprintln(color.Output, color.GreenString("  Complete! All tree styles are unlocked."))
	}
}
