package usecase

import (
	"errors"
	"fmt"
	"math"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

// ValidatePatch rejects settings groups the time clock could not apply.
func ValidatePatch(p domain.SettingsPatch) error {
	var errs []error
	if g := p.Geofencing; g != nil {
		if !finite(g.Radius) || g.Radius < 0 {
			errs = append(errs, fmt.Errorf("geofencing radius %v is not a non-negative number", g.Radius))
		}
		if g.Enabled && len(g.Locations) == 0 {
			errs = append(errs, errors.New("geofencing enabled without locations"))
		}
		for _, wl := range g.Locations {
			if !finite(wl.Latitude) || !finite(wl.Longitude) ||
				wl.Latitude < -90 || wl.Latitude > 90 || wl.Longitude < -180 || wl.Longitude > 180 {
				errs = append(errs, fmt.Errorf("location %q has invalid coordinates", wl.ID))
			}
		}
	}
	if wh := p.WorkHours; wh != nil {
		start, err := wh.StartHour()
		if err != nil {
			errs = append(errs, err)
		}
		end, err2 := wh.EndHour()
		if err2 != nil {
			errs = append(errs, err2)
		}
		if err == nil && err2 == nil && end <= start {
			errs = append(errs, fmt.Errorf("work hours end %s is not after start %s", wh.End, wh.Start))
		}
		if wh.BreakDuration < 0 {
			errs = append(errs, fmt.Errorf("break duration %d is negative", wh.BreakDuration))
		}
	}
	if n := p.Notifications; n != nil && n.ReminderTime < 0 {
		errs = append(errs, fmt.Errorf("reminder time %d is negative", n.ReminderTime))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
