package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
)

// HTTPLocator implements ports.Locator against a device location service
// exposing GET /v1/location.
type HTTPLocator struct {
	baseURL string
	token   string
	http    *http.Client
	now     func() time.Time
	log     *slog.Logger
}

// NewHTTPLocator returns a locator for the service at baseURL. An empty token
// sends no Authorization header.
func NewHTTPLocator(baseURL, token string, timeout time.Duration, log *slog.Logger) *HTTPLocator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPLocator{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
		log:     log,
	}
}

// Locate performs a single lookup. Every failure wraps domain.ErrLocationUnavailable.
func (c *HTTPLocator) Locate(ctx context.Context) (domain.Location, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: bad locator url: %v", domain.ErrLocationUnavailable, err)
	}
	u = u.JoinPath("v1", "location")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.Location{}, fmt.Errorf("%w: permission denied", domain.ErrLocationUnavailable)
	case http.StatusNotFound, http.StatusNotImplemented:
		return domain.Location{}, fmt.Errorf("%w: location service not supported", domain.ErrLocationUnavailable)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Location{}, fmt.Errorf("%w: unexpected status %d: %s", domain.ErrLocationUnavailable, resp.StatusCode, string(body))
	}

	var raw rawLocation
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Location{}, fmt.Errorf("%w: decoding response: %v", domain.ErrLocationUnavailable, err)
	}
	loc, err := raw.toDomain(c.now())
	if err != nil {
		return domain.Location{}, err
	}
	c.log.Debug("location resolved",
		slog.Float64("lat", loc.Latitude),
		slog.Float64("lng", loc.Longitude),
		slog.Float64("accuracy", loc.Accuracy),
		slog.Duration("dur", c.now().Sub(start)),
	)
	return loc, nil
}

// rawLocation mirrors the location service JSON.
type rawLocation struct {
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Accuracy  float64    `json:"accuracy"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r rawLocation) toDomain(now time.Time) (domain.Location, error) {
	if r.Latitude == nil || r.Longitude == nil {
		return domain.Location{}, fmt.Errorf("%w: response missing coordinates", domain.ErrLocationUnavailable)
	}
	loc := domain.Location{Latitude: *r.Latitude, Longitude: *r.Longitude, Accuracy: r.Accuracy, Timestamp: now}
	if r.Timestamp != nil {
		loc.Timestamp = *r.Timestamp
	}
	if err := Validate(loc); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}

var _ ports.Locator = (*HTTPLocator)(nil)
