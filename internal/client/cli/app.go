package cli

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/dkazakov/treeboard/internal/client/config"
	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/client/services"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires the treeboard services behind the interactive CLI. With a
// configured DSN it talks to the shared Postgres board; otherwise it runs
// against the local cache.
type App struct {
	config *config.Config
	logger logging.Logger
	state  *state.Store
	store  remote.Store

	profiles services.ProfileService
	compose  services.ComposeService
	sync     services.SyncService
	missions services.MissionsService

	Mode   Mode
	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: logger,
		state:  state.New(),
		reader: bufio.NewReader(os.Stdin),
		Mode:   ModeOffline,
	}

	if c.DatabaseDSN != "" {
		store, err := remote.NewPostgresStore(ctx, c.DatabaseDSN, logger)
		if err != nil {
			logger.Warn(ctx, "backend unreachable, starting offline", "error", err)
		} else {
			a.wire(store, ModeOnline)
			return a, nil
		}
	}

	store, err := a.openCache(ctx)
	if err != nil {
		return nil, err
	}
	a.wire(store, ModeOffline)
	return a, nil
}

func (a *App) openCache(ctx context.Context) (remote.Store, error) {
	if dir := filepath.Dir(a.config.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return remote.NewOfflineStore(ctx, a.config.CachePath, a.logger)
}

// wire builds the service set on top of a store, replacing any previous
// one. The session user and view survive a store switch; messages are
// refetched on the next view.
func (a *App) wire(store remote.Store, mode Mode) {
	if a.sync != nil {
		_ = a.sync.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}

	a.store = store
	a.Mode = mode

	picker := models.NewRandPicker(rand.New(rand.NewSource(time.Now().UnixNano())))

	a.missions = services.NewMissionsService(store, a.state, a.logger, func() {
		fmt.Println(color.GreenString("Mission complete! All tree styles are now unlocked."))
	})
	a.compose = services.NewComposeService(store, a.state, a.missions, picker, a.logger)
	a.sync = services.NewSyncService(store, a.state, a.logger)
	a.profiles = services.NewProfileService(store, a.state, a.missions, a.logger)
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		fmt.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.sync.Close()
		_ = a.store.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.state.User() != nil
}

// StartOnlineStatusWatcher periodically probes the backend and flips the
// reported mode. It never switches the store by itself; reconnecting is an
// explicit user action.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.store.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else if _, ok := a.store.(*remote.PostgresStore); ok {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
