package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/file"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	msql "github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/mysql"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/config"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/migrate"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	uc      *usecase.TimeClock
	locator ports.Locator
	closer  func() error
}

// New opens the configured snapshot backend, restores the saved state and
// picks the default location source.
func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	var (
		snaps ports.SnapshotStore
		closer = func() error { return nil }
	)
	switch cfg.Store.Backend {
	case config.BackendMySQL:
		// Run migrations before opening the store for use
		if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c, err := msql.NewClient(ctx, cfg.MySQL.DSN, cfg.Store.Key, log)
		if err != nil {
			return nil, err
		}
		snaps, closer = c, c.Close
	default:
		s, err := file.NewStore(cfg.Store.Dir, cfg.Store.Key, log)
		if err != nil {
			return nil, err
		}
		log.Debug("using file snapshot", slog.String("path", s.Path()))
		snaps = s
	}

	uc := &usecase.TimeClock{Log: log, Snapshots: snaps}
	if err := uc.Load(ctx); err != nil {
		_ = closer()
		return nil, err
	}

	var locator ports.Locator
	if cfg.Locator.URL != "" {
		locator = geo.NewHTTPLocator(cfg.Locator.URL, cfg.Locator.Token, cfg.Locator.Timeout, log)
	} else {
		locator = geo.Unavailable("no location source configured (set BLIP_LOCATOR_URL or pass coordinates)")
	}

	return &App{log: log, uc: uc, locator: locator, closer: closer}, nil
}

// TimeClock exposes the dispatcher for the CLI.
func (a *App) TimeClock() *usecase.TimeClock { return a.uc }

// Locator returns the configured location source.
func (a *App) Locator() ports.Locator { return a.locator }

// Close releases the snapshot backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// HistoryBounds turns user supplied from/to values, RFC3339 or YYYY-MM-DD,
// into the ISO strings the session history compares against. A date-only
// end covers the whole day. Empty from matches everything before to; empty
// to means now.
func HistoryBounds(from, to string, now time.Time) (string, string, error) {
	start, err := parseBound(from, false)
	if err != nil {
		return "", "", fmt.Errorf("from: %w", err)
	}
	end := domain.ISOString(now)
	if to != "" {
		if end, err = parseBound(to, true); err != nil {
			return "", "", fmt.Errorf("to: %w", err)
		}
	}
	if start > end {
		return "", "", errors.New("from is after to")
	}
	return start, end, nil
}

func parseBound(val string, endOfDay bool) (string, error) {
	if val == "" {
		return "", nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return domain.ISOString(t), nil
	}
	d, err := time.Parse("2006-01-02", val)
	if err != nil {
		return "", fmt.Errorf("%q is not RFC3339 or YYYY-MM-DD", val)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Millisecond)
	}
	return domain.ISOString(d), nil
}
