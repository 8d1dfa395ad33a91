package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dkazakov/treeboard/internal/client/layout"
	"github.com/dkazakov/treeboard/internal/client/models"
)

// resolveProfileID turns an email or raw id into a profile id.
func (a *App) resolveProfileID(ctx context.Context, ref string) (string, error) {
	if !strings.Contains(ref, "@") {
		return ref, nil
	}
	p, err := a.store.ProfileByEmail(ctx, ref)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// view opens somebody's tree and renders the decorated board.
func (a *App) view(ctx context.Context, ref string) {
	if !a.isLoggedIn() {
		fmt.Println("Log in first")
		return
	}

	ownerID, err := a.resolveProfileID(ctx, ref)
	if err != nil {
		fmt.Println("Cannot find that tree:", err)
		return
	}

	owner, err := a.sync.OpenTree(ctx, ownerID)
	if err != nil {
		fmt.Println("Cannot open tree:", err)
		return
	}

	a.renderBoard(owner)
	fmt.Println("Live updates are on for this tree. Use 'open <n>' to read a message.")
}

// renderBoard prints the visible messages of the currently viewed tree with
// their computed decoration placement.
func (a *App) renderBoard(owner *models.Profile) {
	viewer := a.state.User()
	visible := models.FilterVisible(a.state.Messages(), viewer.ID, owner.ID)

	level := layout.DecorationLevel(len(visible))
	fmt.Fprintf(color.Output, "%s's tree  (tree %s, star %s, sky %s)  decoration level %d/4\n",
		color.GreenString(owner.Name()), owner.TreeColor, owner.StarColor, owner.SkyColor, level)

	if len(visible) == 0 {
		fmt.Println("The tree is bare. Be the first to decorate it!")
		return
	}

	// Placement depends on the per-category ordinal, not the overall index.
	ordinals := make(map[models.Decoration]int)

	tbl := uitable.New()
	tbl.MaxColWidth = 44
	tbl.AddRow("#", "DECORATION", "POSITION", "FROM", "MESSAGE")
	for i, m := range visible {
		ord := ordinals[m.Decoration]
		ordinals[m.Decoration]++
		pos := layout.Position(m.Decoration, ord)

		from := m.SenderID
		if sender := a.state.UserByID(m.SenderID); sender != nil {
			from = sender.Name()
		}

		preview := firstLine(m.Content)
		if m.IsPrivate {
			preview = color.YellowString("[private] ") + preview
		}

		tbl.AddRow(strconv.Itoa(i+1), decorationGlyph(m.Decoration)+" "+m.Color,
			fmt.Sprintf("(%.1f, %.1f, %.1f)", pos.X, pos.Y, pos.Z), from, preview)
	}
	fmt.Fprintln(color.Output, tbl)
}

// open shows the full text of one message from the rendered board.
func (a *App) open(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("Usage: open <n>")
		return
	}

	viewer := a.state.User()
	if viewer == nil {
		fmt.Println("Log in first")
		return
	}
	visible := models.FilterVisible(a.state.Messages(), viewer.ID, a.state.ViewOwnerID())
	if n < 1 || n > len(visible) {
		fmt.Printf("No message %d on this board\n", n)
		return
	}

	m := visible[n-1]
	a.state.OpenMessageModal(m)
	defer a.state.CloseMessageModal()

	from := m.SenderID
	if sender := a.state.UserByID(m.SenderID); sender != nil {
		from = sender.Name()
	}

	fmt.Fprintf(color.Output, "%s %s from %s (%s)\n", decorationGlyph(m.Decoration),
		m.Decoration, color.CyanString(from), m.CreatedAt.Format("Jan 2 15:04"))
	if m.IsPrivate {
		fmt.Fprintln(color.Output, color.YellowString("Only you and the sender can see this message."))
	}
	fmt.Println(m.Content)
}

func decorationGlyph(d models.Decoration) string {
	switch d {
	case models.DecorationGift:
		return "🎁"
	case models.DecorationCard:
		return "💌"
	case models.DecorationOrnament:
		return "🔮"
	default:
		return "?"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
