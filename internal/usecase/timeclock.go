package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/store"
)

const (
	// MinBreakElapsed is how long after clock-in a break may first start.
	MinBreakElapsed = 2 * time.Hour
	// LunchAfter is the elapsed time from which a new break is a lunch break.
	LunchAfter = 4 * time.Hour
)

// TimeClock dispatches clock-in/out and break commands to the session store.
// It applies the eligibility rules the store leaves to its caller and saves a
// snapshot after every successful mutation. Calls are serialized.
type TimeClock struct {
	Log       *slog.Logger
	Snapshots ports.SnapshotStore
	// Now defaults to time.Now. Work hours are checked against its local hour.
	Now func() time.Time
	// NewID overrides the session id generator; used by tests.
	NewID func() string

	mu    sync.Mutex
	store *store.SessionStore
}

// Load restores the persisted snapshot, or starts from defaults when none
// exists. It must be called before any other method.
func (uc *TimeClock) Load(ctx context.Context) error {
	if uc.Log == nil || uc.Snapshots == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	st, ok, err := uc.Snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if !ok {
		st = domain.NewState()
		uc.Log.Info("no snapshot found, starting fresh")
	} else {
		uc.Log.Info("snapshot loaded", slog.Int("sessions", len(st.Sessions)))
	}

	opts := []store.Option{store.WithClock(uc.now)}
	if uc.NewID != nil {
		opts = append(opts, store.WithIDGenerator(uc.NewID))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.store = store.New(st, opts...)
	return nil
}

// ClockIn resolves the location once and starts a session when the employee
// is inside a work geofence during work hours.
func (uc *TimeClock) ClockIn(ctx context.Context, employeeID string, locator ports.Locator) (domain.Session, error) {
	employeeID, err := uc.begin(employeeID)
	if err != nil {
		return domain.Session{}, err
	}
	loc, err := uc.locate(ctx, locator)
	if err != nil {
		return domain.Session{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.store.ActiveSession(employeeID); ok {
		return domain.Session{}, domain.ErrAlreadyClockedIn
	}
	if !uc.store.IsWithinWorkLocation(loc) {
		uc.Log.Info("clock-in rejected: outside geofence",
			slog.String("employee", employeeID),
			slog.Float64("lat", loc.Latitude),
			slog.Float64("lng", loc.Longitude),
		)
		return domain.Session{}, domain.ErrOutsideGeofence
	}
	if err := withinWorkHours(uc.store.Settings().WorkHours, uc.now()); err != nil {
		uc.Log.Info("clock-in rejected", slog.String("employee", employeeID), slog.String("reason", err.Error()))
		return domain.Session{}, err
	}

	id := uc.store.StartSession(employeeID, loc)
	sess, _ := uc.store.Session(id)
	uc.Log.Info("clocked in", slog.String("employee", employeeID), slog.String("session", id))
	return sess, uc.persist(ctx)
}

// ClockOut completes the employee's active session at the resolved location.
// No geofence check applies on the way out.
func (uc *TimeClock) ClockOut(ctx context.Context, employeeID string, locator ports.Locator) (domain.Session, error) {
	employeeID, err := uc.begin(employeeID)
	if err != nil {
		return domain.Session{}, err
	}
	if _, ok := uc.ActiveSession(employeeID); !ok {
		return domain.Session{}, domain.ErrNotClockedIn
	}
	loc, err := uc.locate(ctx, locator)
	if err != nil {
		return domain.Session{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	active, ok := uc.store.ActiveSession(employeeID)
	if !ok {
		return domain.Session{}, domain.ErrNotClockedIn
	}
	uc.store.EndSession(active.ID, loc)
	sess, _ := uc.store.Session(active.ID)
	uc.Log.Info("clocked out",
		slog.String("employee", employeeID),
		slog.String("session", sess.ID),
		slog.Duration("worked", sess.Worked(uc.now())),
	)
	return sess, uc.persist(ctx)
}

// StartBreak opens a break on the active session once MinBreakElapsed has
// passed. The kind is lunch from LunchAfter onwards, rest before.
func (uc *TimeClock) StartBreak(ctx context.Context, employeeID string) (domain.Session, error) {
	employeeID, err := uc.begin(employeeID)
	if err != nil {
		return domain.Session{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	active, ok := uc.store.ActiveSession(employeeID)
	if !ok {
		return domain.Session{}, domain.ErrNotClockedIn
	}
	if active.OnBreak() {
		return domain.Session{}, domain.ErrBreakInProgress
	}
	elapsed := active.Elapsed(uc.now())
	if elapsed < MinBreakElapsed {
		return domain.Session{}, domain.ErrBreakTooEarly
	}
	kind := BreakKindAfter(elapsed)

	uc.store.StartBreak(active.ID, kind)
	sess, _ := uc.store.Session(active.ID)
	uc.Log.Info("break started", slog.String("employee", employeeID), slog.String("kind", string(kind)))
	return sess, uc.persist(ctx)
}

// EndBreak closes the open break of the active session.
func (uc *TimeClock) EndBreak(ctx context.Context, employeeID string) (domain.Session, error) {
	employeeID, err := uc.begin(employeeID)
	if err != nil {
		return domain.Session{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	active, ok := uc.store.ActiveSession(employeeID)
	if !ok {
		return domain.Session{}, domain.ErrNotClockedIn
	}
	if !active.OnBreak() {
		return domain.Session{}, domain.ErrNoOpenBreak
	}

	uc.store.EndBreak(active.ID)
	sess, _ := uc.store.Session(active.ID)
	b, _ := sess.LastBreak()
	uc.Log.Info("break ended",
		slog.String("employee", employeeID),
		slog.String("kind", string(b.Kind)),
		slog.Duration("dur", b.Duration(uc.now())),
	)
	return sess, uc.persist(ctx)
}

// UpdateSettings validates and applies a partial settings update.
func (uc *TimeClock) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if err := ValidatePatch(patch); err != nil {
		return domain.Settings{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.store == nil {
		return domain.Settings{}, errNotLoaded
	}
	if patch.Empty() {
		return uc.store.Settings(), nil
	}
	uc.store.UpdateSettings(patch)
	uc.Log.Info("settings updated",
		slog.Bool("geofencing", patch.Geofencing != nil),
		slog.Bool("workHours", patch.WorkHours != nil),
		slog.Bool("notifications", patch.Notifications != nil),
	)
	return uc.store.Settings(), uc.persist(ctx)
}

// Settings returns the current settings.
func (uc *TimeClock) Settings() domain.Settings {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.store == nil {
		return domain.DefaultSettings()
	}
	return uc.store.Settings()
}

// CheckLocation reports whether loc is inside a work geofence.
func (uc *TimeClock) CheckLocation(loc domain.Location) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.store == nil {
		return false
	}
	return uc.store.IsWithinWorkLocation(loc)
}

// ActiveSession returns the employee's running session.
func (uc *TimeClock) ActiveSession(employeeID string) (domain.Session, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.store == nil {
		return domain.Session{}, false
	}
	return uc.store.ActiveSession(strings.TrimSpace(employeeID))
}

// History returns the employee's sessions whose clock-in falls within the
// ISO-8601 bounds, compared as strings.
func (uc *TimeClock) History(employeeID, from, to string) []domain.Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.store == nil {
		return []domain.Session{}
	}
	return uc.store.SessionHistory(strings.TrimSpace(employeeID), from, to)
}

// BreakKindAfter returns the kind of a break started elapsed after clock-in.
func BreakKindAfter(elapsed time.Duration) domain.BreakKind {
	if elapsed >= LunchAfter {
		return domain.BreakLunch
	}
	return domain.BreakRest
}

var errNotLoaded = errors.New("usecase not initialized: call Load first")

// begin checks the dispatcher is loaded and normalizes the employee id.
func (uc *TimeClock) begin(employeeID string) (string, error) {
	uc.mu.Lock()
	loaded := uc.store != nil
	uc.mu.Unlock()
	if !loaded {
		return "", errNotLoaded
	}
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return "", domain.ErrEmployeeRequired
	}
	return employeeID, nil
}

// locate consumes a single reading from locator.
func (uc *TimeClock) locate(ctx context.Context, locator ports.Locator) (domain.Location, error) {
	if locator == nil {
		return domain.Location{}, fmt.Errorf("%w: no location source", domain.ErrLocationUnavailable)
	}
	loc, err := locator.Locate(ctx)
	if err != nil {
		uc.Log.Warn("location unavailable", slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrLocationUnavailable) {
			return domain.Location{}, err
		}
		return domain.Location{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	return loc, nil
}

// persist writes the snapshot. The caller must hold uc.mu. A failed write
// leaves the in-memory mutation in place.
func (uc *TimeClock) persist(ctx context.Context) error {
	snap := uc.store.Snapshot()
	if err := uc.Snapshots.Save(ctx, snap); err != nil {
		uc.Log.Error("snapshot save failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", domain.ErrSnapshot, err)
	}
	return nil
}

func (uc *TimeClock) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// withinWorkHours checks that the hour of now lies in [start hour, end hour).
// Minutes of the configured times are ignored.
func withinWorkHours(wh domain.WorkHours, now time.Time) error {
	start, err := wh.StartHour()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}
	end, err := wh.EndHour()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}
	if h := now.Hour(); h < start || h >= end {
		return domain.ErrOutsideWorkHours
	}
	return nil
}
