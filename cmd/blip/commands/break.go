package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

func breakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Start or end a break in the active session",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start a break (rest, or lunch from 4 hours in)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				emp, err := requireEmployee()
				if err != nil {
					return err
				}
				sess, err := appCtx.TimeClock().StartBreak(cmd.Context(), emp)
				if err != nil && !errors.Is(err, domain.ErrSnapshot) {
					return err
				}
				b, _ := sess.LastBreak()
				fmt.Fprintf(cmd.OutOrStdout(), "Started %s break at %s\n", b.Kind, b.StartTime.Local().Format("15:04"))
				return err
			},
		},
		&cobra.Command{
			Use:   "end",
			Short: "End the current break",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				emp, err := requireEmployee()
				if err != nil {
					return err
				}
				sess, err := appCtx.TimeClock().EndBreak(cmd.Context(), emp)
				if err != nil && !errors.Is(err, domain.ErrSnapshot) {
					return err
				}
				b, _ := sess.LastBreak()
				fmt.Fprintf(cmd.OutOrStdout(), "Ended %s break after %s\n", b.Kind, formatDuration(b.Duration(time.Now())))
				return err
			},
		},
	)
	return cmd
}
