package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/dkazakov/treeboard/internal/client/remote"
)

// connect interactively assembles a Postgres DSN and switches the app to
// the shared board. The password is read without echo.
func (a *App) connect(ctx context.Context) {
	host, err := GetSimpleText(a.reader, "Host (host:port)", os.Stdout)
	if err != nil || host == "" {
		return
	}
	dbname, err := GetSimpleText(a.reader, "Database", os.Stdout)
	if err != nil || dbname == "" {
		return
	}
	user, err := GetSimpleText(a.reader, "User", os.Stdout)
	if err != nil || user == "" {
		return
	}
	password, err := GetPassword("Password", os.Stdout)
	if err != nil {
		return
	}

	dsn := (&url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, string(password)),
		Host:   host,
		Path:   "/" + dbname,
	}).String()

	store, err := remote.NewPostgresStore(ctx, dsn, a.logger)
	if err != nil {
		fmt.Println("Connection failed:", err)
		return
	}

	a.wire(store, ModeOnline)
	a.config.DatabaseDSN = dsn
	fmt.Println("Connected to the shared board")
}
