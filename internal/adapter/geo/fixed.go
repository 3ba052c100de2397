// Package geo provides ports.Locator implementations.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
)

// Fixed returns a locator that always yields loc, e.g. a reading the UI
// already obtained.
func Fixed(loc domain.Location) ports.Locator { return fixed(loc) }

type fixed domain.Location

func (f fixed) Locate(ctx context.Context) (domain.Location, error) {
	loc := domain.Location(f)
	if err := Validate(loc); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}

// Unavailable returns a locator that always fails with reason.
func Unavailable(reason string) ports.Locator { return unavailable(reason) }

type unavailable string

func (u unavailable) Locate(ctx context.Context) (domain.Location, error) {
	return domain.Location{}, fmt.Errorf("%w: %s", domain.ErrLocationUnavailable, string(u))
}

// Validate checks that loc holds plausible coordinates.
func Validate(loc domain.Location) error {
	for _, v := range []float64{loc.Latitude, loc.Longitude, loc.Accuracy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate %v", domain.ErrLocationUnavailable, v)
		}
	}
	var errs []error
	if loc.Latitude < -90 || loc.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude %v out of range", loc.Latitude))
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude %v out of range", loc.Longitude))
	}
	if loc.Accuracy < 0 {
		errs = append(errs, fmt.Errorf("negative accuracy %v", loc.Accuracy))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, errors.Join(errs...))
	}
	return nil
}
