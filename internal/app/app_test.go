package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/config"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

func TestNew_FileBackend(t *testing.T) {
	var cfg config.Config
	cfg.Store.Backend = config.BackendFile
	cfg.Store.Dir = t.TempDir()
	cfg.Store.Key = config.DefaultStorageKey

	a, err := New(t.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, domain.DefaultSettings(), a.TimeClock().Settings())

	_, err = a.Locator().Locate(t.Context())
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
}

func TestNew_FileBackendRequiresDir(t *testing.T) {
	var cfg config.Config
	cfg.Store.Backend = config.BackendFile
	cfg.Store.Key = config.DefaultStorageKey

	_, err := New(t.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	assert.Error(t, err)
}

func TestHistoryBounds(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name, from, to   string
		wantFrom, wantTo string
		wantErr          bool
	}{
		{name: "empty", wantFrom: "", wantTo: "2024-03-10T12:00:00.000Z"},
		{name: "dates", from: "2024-01-01", to: "2024-01-31",
			wantFrom: "2024-01-01T00:00:00.000Z", wantTo: "2024-01-31T23:59:59.999Z"},
		{name: "rfc3339 with offset", from: "2024-01-01T09:00:00+13:00", to: "2024-01-02T00:00:00Z",
			wantFrom: "2023-12-31T20:00:00.000Z", wantTo: "2024-01-02T00:00:00.000Z"},
		{name: "garbage", from: "last week", wantErr: true},
		{name: "reversed", from: "2024-02-01", to: "2024-01-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := HistoryBounds(tt.from, tt.to, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}
