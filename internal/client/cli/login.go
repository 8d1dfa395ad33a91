package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dkazakov/treeboard/internal/common"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter your email", os.Stdout)
	if err != nil || email == "" {
		return
	}

	p, err := a.profiles.Login(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("No profile with that email. In offline mode, try 'seed' first.")
		} else {
			fmt.Println("Login failed:", err)
		}
		return
	}

	fmt.Printf("Hello, %s!\n", p.Name())

	if _, err := a.missions.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "initial mission refresh failed", "error", err)
	}
}
