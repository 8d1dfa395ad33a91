package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// trees lists colleagues whose trees can be visited, optionally filtered
// by a search query.
func (a *App) trees(ctx context.Context, query string) {
	found, err := a.profiles.Search(ctx, query)
	if err != nil {
		fmt.Println("Search failed:", err)
		return
	}
	if len(found) == 0 {
		fmt.Println("Nobody found. In offline mode, try 'seed' first.")
		return
	}

	me := a.state.User()

	tbl := uitable.New()
	tbl.MaxColWidth = 40
	tbl.AddRow("NAME", "EMAIL", "TREE")
	for _, p := range found {
		name := p.Name()
		if me != nil && p.ID == me.ID {
			name += " (you)"
		}
		tbl.AddRow(name, p.Email, p.TreeColor)
	}
	fmt.Fprintln(color.Output, tbl)
}
