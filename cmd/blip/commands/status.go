package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/usecase"
)

func statusCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := requireEmployee()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printStatus(out, appCtx.TimeClock().Status(emp))
			if !watch {
				return nil
			}

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprint(out, "\033[H\033[2J")
					printStatus(out, appCtx.TimeClock().Status(emp))
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh every second until interrupted")
	return cmd
}

func printStatus(w io.Writer, st usecase.Status) {
	if !st.ClockedIn() {
		fmt.Fprintf(w, "%s is not clocked in\n", st.EmployeeID)
		return
	}
	printSession(w, *st.Session, st.At)
	switch {
	case st.OnBreak:
		line := fmt.Sprintf("On %s break for %s", st.BreakKind, formatDuration(st.BreakElapsed))
		if st.BreakOverdue {
			line += " (overdue)"
		}
		fmt.Fprintln(w, line)
	case st.CanStartBreak:
		fmt.Fprintf(w, "A %s break is available\n", st.NextBreakKind)
	default:
		wait := usecase.MinBreakElapsed - st.Session.Elapsed(st.At)
		fmt.Fprintf(w, "Next break available in %s\n", formatDuration(wait))
	}
	if st.ReminderDue {
		fmt.Fprintln(w, "Reminder: the working day is nearly over, remember to clock out")
	}
}
