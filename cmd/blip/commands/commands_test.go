package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/app"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/config"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/usecase"
)

func TestParseLocations(t *testing.T) {
	got, err := parseLocations([]string{"Auckland CBD@-36.8485,174.7633", " Wellington @ -41.2865 , 174.7762"})
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkLocation{
		{ID: "1", Name: "Auckland CBD", Latitude: -36.8485, Longitude: 174.7633},
		{ID: "2", Name: "Wellington", Latitude: -41.2865, Longitude: 174.7762},
	}, got)

	for _, bad := range []string{"nowhere", "@1,2", "X@1", "X@north,2", "X@1,east"} {
		_, err := parseLocations([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", formatDuration(59*time.Second))
	assert.Equal(t, "45m", formatDuration(45*time.Minute))
	assert.Equal(t, "2h05m", formatDuration(2*time.Hour+5*time.Minute+30*time.Second))
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, usecase.Status{EmployeeID: "emp-1"})
	assert.Equal(t, "emp-1 is not clocked in\n", buf.String())

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	sess := domain.Session{
		ID:         "s-1",
		EmployeeID: "emp-1",
		ClockIn:    domain.Punch{Time: start},
		Status:     domain.StatusActive,
		Breaks:     []domain.Break{{StartTime: start.Add(2 * time.Hour), Kind: domain.BreakRest}},
	}
	buf.Reset()
	printStatus(&buf, usecase.Status{
		EmployeeID:   "emp-1",
		At:           start.Add(2*time.Hour + 40*time.Minute),
		Session:      &sess,
		OnBreak:      true,
		BreakKind:    domain.BreakRest,
		BreakElapsed: 40 * time.Minute,
		BreakOverdue: true,
		ReminderDue:  true,
	})
	out := buf.String()
	assert.Contains(t, out, "Session s-1 (active)")
	assert.Contains(t, out, "On rest break for 40m (overdue)")
	assert.Contains(t, out, "worked     2h00m")
	assert.Contains(t, out, "remember to clock out")
}

// useFileApp points the package level app at a fresh file store in dir.
func useFileApp(t *testing.T, dir string) {
	t.Helper()
	var c config.Config
	c.Store.Backend = config.BackendFile
	c.Store.Dir = dir
	c.Store.Key = config.DefaultStorageKey

	a, err := app.New(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), c)
	require.NoError(t, err)
	prev := appCtx
	appCtx = a
	t.Cleanup(func() {
		_ = a.Close()
		appCtx = prev
	})
}

func runSettingsSet(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := settingsSetCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSettingsSet_KeepsUnchangedFieldsOfGroup(t *testing.T) {
	dir := t.TempDir()
	useFileApp(t, dir)
	defaults := domain.DefaultSettings()

	_, err := runSettingsSet(t, "--work-start", "08:00")
	require.NoError(t, err)

	wh := appCtx.TimeClock().Settings().WorkHours
	assert.Equal(t, "08:00", wh.Start)
	assert.Equal(t, defaults.WorkHours.End, wh.End)
	assert.Equal(t, defaults.WorkHours.BreakDuration, wh.BreakDuration)

	_, err = runSettingsSet(t, "--radius", "250")
	require.NoError(t, err)
	g := appCtx.TimeClock().Settings().Geofencing
	assert.Equal(t, 250.0, g.Radius)
	assert.True(t, g.Enabled)
	assert.Equal(t, defaults.Geofencing.Locations, g.Locations)

	// A reload from the snapshot sees the merged groups.
	useFileApp(t, dir)
	got := appCtx.TimeClock().Settings()
	assert.Equal(t, "08:00", got.WorkHours.Start)
	assert.Equal(t, defaults.WorkHours.End, got.WorkHours.End)
	assert.Equal(t, 250.0, got.Geofencing.Radius)
	assert.Equal(t, defaults.Notifications, got.Notifications)
}

func TestSettingsSet_Rejections(t *testing.T) {
	useFileApp(t, t.TempDir())

	_, err := runSettingsSet(t)
	assert.ErrorContains(t, err, "nothing to change")

	_, err = runSettingsSet(t, "--work-end", "08:00")
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)

	_, err = runSettingsSet(t, "--location", "Nowhere@NaN,0")
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)

	assert.Equal(t, domain.DefaultSettings(), appCtx.TimeClock().Settings())
}
