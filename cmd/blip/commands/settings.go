package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change time clock settings",
	}
	cmd.AddCommand(settingsShowCmd(), settingsSetCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(appCtx.TimeClock().Settings())
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var (
		geofencing    bool
		radius        float64
		locations     []string
		workStart     string
		workEnd       string
		breakDuration int
		reminder      bool
		reminderTime  int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unspecified fields keep their value",
		Example: `  blip settings set --work-start 08:00 --work-end 16:30
  blip settings set --location "Auckland CBD@-36.8485,174.7633" --radius 150`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			current := appCtx.TimeClock().Settings()
			var patch domain.SettingsPatch

			if flags.Changed("geofencing") || flags.Changed("radius") || flags.Changed("location") {
				g := current.Geofencing
				if flags.Changed("geofencing") {
					g.Enabled = geofencing
				}
				if flags.Changed("radius") {
					g.Radius = radius
				}
				if flags.Changed("location") {
					parsed, err := parseLocations(locations)
					if err != nil {
						return err
					}
					g.Locations = parsed
				}
				patch.Geofencing = &g
			}
			if flags.Changed("work-start") || flags.Changed("work-end") || flags.Changed("break-duration") {
				wh := current.WorkHours
				if flags.Changed("work-start") {
					wh.Start = workStart
				}
				if flags.Changed("work-end") {
					wh.End = workEnd
				}
				if flags.Changed("break-duration") {
					wh.BreakDuration = breakDuration
				}
				patch.WorkHours = &wh
			}
			if flags.Changed("reminder") || flags.Changed("reminder-time") {
				n := current.Notifications
				if flags.Changed("reminder") {
					n.ReminderEnabled = reminder
				}
				if flags.Changed("reminder-time") {
					n.ReminderTime = reminderTime
				}
				patch.Notifications = &n
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change, see --help")
			}

			updated, err := appCtx.TimeClock().UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(updated)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&geofencing, "geofencing", true, "restrict clock-in to work locations")
	f.Float64Var(&radius, "radius", 0, "geofence radius in meters")
	f.StringArrayVar(&locations, "location", nil, `work location as "Name@lat,lng"; repeat to replace the list`)
	f.StringVar(&workStart, "work-start", "", "start of the working day, HH:MM")
	f.StringVar(&workEnd, "work-end", "", "end of the working day, HH:MM")
	f.IntVar(&breakDuration, "break-duration", 0, "allowed break length in minutes")
	f.BoolVar(&reminder, "reminder", true, "remind to clock out before the day ends")
	f.IntVar(&reminderTime, "reminder-time", 0, "minutes before the end of the day to remind")
	return cmd
}

// parseLocations reads "Name@lat,lng" values. IDs are assigned by position.
func parseLocations(vals []string) ([]domain.WorkLocation, error) {
	out := make([]domain.WorkLocation, 0, len(vals))
	for i, v := range vals {
		name, coords, ok := strings.Cut(v, "@")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("location %q: expected Name@lat,lng", v)
		}
		latStr, lngStr, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("location %q: expected Name@lat,lng", v)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("location %q: latitude: %w", v, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if err != nil {
			return nil, fmt.Errorf("location %q: longitude: %w", v, err)
		}
		out = append(out, domain.WorkLocation{
			ID:        strconv.Itoa(i + 1),
			Name:      strings.TrimSpace(name),
			Latitude:  lat,
			Longitude: lng,
		})
	}
	return out, nil
}
