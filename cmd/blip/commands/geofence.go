package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

func geofenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geofence",
		Short: "Inspect the work geofence",
	}

	var lat, lng float64
	check := &cobra.Command{
		Use:   "check",
		Short: "Report whether a coordinate is inside a work location",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := domain.Location{Latitude: lat, Longitude: lng}
			if err := geo.Validate(loc); err != nil {
				return err
			}
			if appCtx.TimeClock().CheckLocation(loc) {
				fmt.Fprintln(cmd.OutOrStdout(), "inside an approved work location")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "outside all work locations")
			}
			return nil
		},
	}
	check.Flags().Float64Var(&lat, "lat", 0, "latitude")
	check.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = check.MarkFlagRequired("lat")
	_ = check.MarkFlagRequired("lng")

	cmd.AddCommand(check)
	return cmd
}
