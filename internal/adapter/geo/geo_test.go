package geo_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHTTPLocator_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/location", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"latitude":-36.8485,"longitude":174.7633,"accuracy":8.5,"timestamp":"2024-01-15T09:00:00Z"}`)
	}))
	defer srv.Close()

	loc, err := geo.NewHTTPLocator(srv.URL, "secret", time.Second, discardLogger()).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -36.8485, loc.Latitude)
	assert.Equal(t, 174.7633, loc.Longitude)
	assert.Equal(t, 8.5, loc.Accuracy)
	assert.True(t, loc.Timestamp.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))
}

func TestHTTPLocator_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"forbidden": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
		"not found": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "{") },
		"missing coordinates": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"accuracy":3}`)
		},
		"out of range": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"latitude":123,"longitude":0}`)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := geo.NewHTTPLocator(srv.URL, "", time.Second, discardLogger()).Locate(context.Background())
			assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
		})
	}
}

func TestHTTPLocator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := geo.NewHTTPLocator(url, "", time.Second, discardLogger()).Locate(context.Background())
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
}

func TestFixedAndUnavailable(t *testing.T) {
	want := domain.Location{Latitude: -36.8485, Longitude: 174.7633, Accuracy: 5}
	got, err := geo.Fixed(want).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = geo.Fixed(domain.Location{Latitude: 91}).Locate(context.Background())
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)

	_, err = geo.Unavailable("permission denied").Locate(context.Background())
	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
	assert.ErrorContains(t, err, "permission denied")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     domain.Location
		wantErr bool
	}{
		{"auckland", domain.Location{Latitude: -36.8485, Longitude: 174.7633, Accuracy: 5}, false},
		{"poles and antimeridian", domain.Location{Latitude: -90, Longitude: 180}, false},
		{"latitude out of range", domain.Location{Latitude: 90.1}, true},
		{"longitude out of range", domain.Location{Longitude: -180.5}, true},
		{"negative accuracy", domain.Location{Accuracy: -1}, true},
		{"NaN latitude", domain.Location{Latitude: math.NaN()}, true},
		{"NaN longitude", domain.Location{Longitude: math.NaN()}, true},
		{"Inf latitude", domain.Location{Latitude: math.Inf(1)}, true},
		{"-Inf longitude", domain.Location{Longitude: math.Inf(-1)}, true},
		{"NaN accuracy", domain.Location{Accuracy: math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geo.Validate(tt.loc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
		})
	}
}
