package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/common"
)

// send composes a message for somebody's tree. The decoration category is
// picked at random on submit; the color is the sender's choice.
func (a *App) send(ctx context.Context, ref string) {
	if !a.isLoggedIn() {
		fmt.Println("Log in first")
		return
	}

	recipientID, err := a.resolveProfileID(ctx, ref)
	if err != nil {
		fmt.Println("Cannot find that tree:", err)
		return
	}

	me := a.state.User()
	if me != nil && me.ID == recipientID {
		fmt.Println("Decorating your own tree is cheating")
		return
	}

	// One message per tree: no point prompting for content we already know
	// the backend would reject.
	if me != nil && recipientID == a.state.ViewOwnerID() && a.state.HasMessageFrom(me.ID) {
		fmt.Println("You already decorated this tree.")
		return
	}

	content, err := GetMultiline(a.reader, "Your message", os.Stdout)
	if err != nil {
		return
	}

	chosen, err := a.pickColor()
	if err != nil {
		return
	}

	private, err := GetYesNo(a.reader, "Visible only to the recipient?", os.Stdout)
	if err != nil {
		return
	}

	err = a.compose.Send(ctx, recipientID, content, chosen, private)
	switch {
	case err == nil:
		fmt.Println(color.GreenString("Your decoration is on the tree!"))
	case errors.Is(err, common.ErrSubmissionInFlight):
		// Still working on the previous one; not an error for the user.
	case errors.Is(err, common.ErrDuplicateMessage):
		fmt.Println("You already decorated this tree.")
	case errors.Is(err, common.ErrEmptyContent):
		fmt.Println("The message cannot be empty.")
	case errors.Is(err, common.ErrContentTooLong):
		fmt.Printf("Keep it under %d characters.\n", common.MaxContentLength)
	case errors.Is(err, common.ErrRequestTimeout):
		fmt.Println("That took too long — the message may have been delivered, check the tree before retrying.")
	default:
		fmt.Println("Sending failed:", err)
	}
}

func (a *App) pickColor() (string, error) {
	fmt.Println("Pick a color:")
	for i, c := range models.DecorationColors {
		fmt.Printf("  %d) %s\n", i+1, c)
	}

	answer, err := GetSimpleText(a.reader, "Color number (Enter for default)", os.Stdout)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return models.DecorationColors[0], nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(models.DecorationColors) {
		fmt.Println("Using the default color")
		return models.DecorationColors[0], nil
	}
	return models.DecorationColors[n-1], nil
}
