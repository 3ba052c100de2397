package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/app"
)

func historyCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List sessions clocked in within a range",
		Long:  "List sessions whose clock-in falls within --from and --to. Both accept RFC3339 or YYYY-MM-DD; a date-only --to covers the whole day.",
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := requireEmployee()
			if err != nil {
				return err
			}
			now := time.Now()
			start, end, err := app.HistoryBounds(from, to, now)
			if err != nil {
				return err
			}
			sessions := appCtx.TimeClock().History(emp, start, end)
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tIN\tOUT\tBREAKS\tWORKED\tSTATUS")
			var total time.Duration
			for _, s := range sessions {
				out := "-"
				if s.ClockOut != nil {
					out = s.ClockOut.Time.Local().Format("15:04")
				}
				worked := s.Worked(now)
				total += worked
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					s.ClockIn.Time.Local().Format(time.DateOnly),
					s.ClockIn.Time.Local().Format("15:04"),
					out,
					len(s.Breaks),
					formatDuration(worked),
					s.Status,
				)
			}
			fmt.Fprintf(tw, "\t\t\t\t%s\t\n", formatDuration(total))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start of range, RFC3339 or YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "end of range, RFC3339 or YYYY-MM-DD (default now)")
	return cmd
}
