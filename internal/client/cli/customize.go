package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/services"
	"github.com/dkazakov/treeboard/internal/common"
)

// customize walks through the three palette choices and saves the result.
func (a *App) customize(ctx context.Context) {
	me := a.state.User()
	if me == nil {
		fmt.Println("Log in first")
		return
	}

	if !a.missions.Unlocked() {
		fmt.Printf("Decorate %d different trees to unlock the full palette. Free options are always available.\n", common.MissionTarget)
	}

	treeColor, err := a.pickOption("Tree color", services.TreeColors, me)
	if err != nil {
		return
	}
	starColor, err := a.pickOption("Star color", services.StarColors, me)
	if err != nil {
		return
	}
	skyColor, err := a.pickOption("Sky color", services.SkyColors, me)
	if err != nil {
		return
	}

	updated, err := a.profiles.SaveCustomization(ctx, models.Customization{
		TreeColor: treeColor,
		StarColor: starColor,
		SkyColor:  skyColor,
	})
	if err != nil {
		if errors.Is(err, common.ErrLockedStyle) {
			fmt.Println("That style is locked:", err)
		} else {
			fmt.Println("Saving failed:", err)
		}
		return
	}

	fmt.Println(color.GreenString("Saved!"), "tree", updated.TreeColor, "star", updated.StarColor, "sky", updated.SkyColor)
}

func (a *App) pickOption(what string, options []services.ColorOption, me *models.Profile) (string, error) {
	fmt.Printf("%s:\n", what)
	current := ""
	switch what {
	case "Tree color":
		current = me.TreeColor
	case "Star color":
		current = me.StarColor
	case "Sky color":
		current = me.SkyColor
	}

	for i, o := range options {
		marker := " "
		if o.Value == current {
			marker = "*"
		}
		label := fmt.Sprintf("%s (%s)", o.Name, o.Value)
		switch {
		case o.Special:
			label += color.MagentaString(" [exclusive]")
		case o.Locked && !a.missions.Unlocked():
			label += color.YellowString(" [locked]")
		}
		fmt.Printf(" %s%d) %s\n", marker, i+1, label)
	}

	answer, err := GetSimpleText(a.reader, "Number (Enter to keep current)", os.Stdout)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		fmt.Println("Keeping the current color")
		return current, nil
	}
	return options[n-1].Value, nil
}
