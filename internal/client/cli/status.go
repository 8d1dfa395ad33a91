package cli

import (
	"fmt"
)

func (a *App) status() {
	fmt.Println("Mode:", a.Mode)

	if u := a.state.User(); u != nil {
		fmt.Printf("Logged in as %s <%s>\n", u.Name(), u.Email)
	} else {
		fmt.Println("Not logged in")
	}

	if owner := a.state.ViewOwnerID(); owner != "" {
		name := owner
		if p := a.state.UserByID(owner); p != nil {
			name = p.Name()
		}
		fmt.Printf("Viewing %s's tree, %d messages loaded\n", name, len(a.state.Messages()))
	}

	fmt.Printf("Mission progress: %d trees decorated\n", a.state.MissionsCompleted())
}
