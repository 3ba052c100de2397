package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
)

// locationFlags lets the caller pass a reading instead of asking the locator.
type locationFlags struct {
	lat, lng, accuracy float64
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude of the current position")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude of the current position")
	cmd.Flags().Float64Var(&f.accuracy, "accuracy", 0, "reading accuracy in meters")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
}

func (f *locationFlags) locator(cmd *cobra.Command, fallback ports.Locator) ports.Locator {
	if !cmd.Flags().Changed("lat") {
		return fallback
	}
	return geo.Fixed(domain.Location{
		Latitude:  f.lat,
		Longitude: f.lng,
		Accuracy:  f.accuracy,
		Timestamp: time.Now().UTC(),
	})
}

func clockInCmd() *cobra.Command {
	var lf locationFlags
	cmd := &cobra.Command{
		Use:   "clock-in",
		Short: "Start a work session at the current location",
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := requireEmployee()
			if err != nil {
				return err
			}
			sess, err := appCtx.TimeClock().ClockIn(cmd.Context(), emp, lf.locator(cmd, appCtx.Locator()))
			if err != nil && !errors.Is(err, domain.ErrSnapshot) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clocked in at %s (session %s)\n", sess.ClockIn.Time.Local().Format("15:04"), sess.ID)
			return err
		},
	}
	lf.register(cmd)
	return cmd
}

func clockOutCmd() *cobra.Command {
	var lf locationFlags
	cmd := &cobra.Command{
		Use:   "clock-out",
		Short: "Complete the active work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := requireEmployee()
			if err != nil {
				return err
			}
			sess, err := appCtx.TimeClock().ClockOut(cmd.Context(), emp, lf.locator(cmd, appCtx.Locator()))
			if err != nil && !errors.Is(err, domain.ErrSnapshot) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clocked out, worked %s\n", formatDuration(sess.Worked(time.Now())))
			return err
		},
	}
	lf.register(cmd)
	return cmd
}

func printSession(w io.Writer, s domain.Session, now time.Time) {
	fmt.Fprintf(w, "Session %s (%s)\n", s.ID, s.Status)
	fmt.Fprintf(w, "  clock-in   %s\n", s.ClockIn.Time.Local().Format(time.DateTime))
	if s.ClockOut != nil {
		fmt.Fprintf(w, "  clock-out  %s\n", s.ClockOut.Time.Local().Format(time.DateTime))
	}
	for _, b := range s.Breaks {
		end := "open"
		if b.EndTime != nil {
			end = b.EndTime.Local().Format("15:04")
		}
		fmt.Fprintf(w, "  %-5s break %s-%s (%s)\n", b.Kind, b.StartTime.Local().Format("15:04"), end, formatDuration(b.Duration(now)))
	}
	fmt.Fprintf(w, "  worked     %s\n", formatDuration(s.Worked(now)))
}

// formatDuration renders d as 1h05m, truncated to the minute.
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
