package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/app"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/config"
)

var (
	verbose    bool
	home       string
	employeeID string

	logger *slog.Logger
	cfg    config.Config
	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:           "blip",
		Short:         "Employee time clock with geofenced clock-in",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("ignoring .env", slog.String("error", err.Error()))
			}
			if home != "" {
				if err := os.Setenv("BLIP_HOME", home); err != nil {
					return err
				}
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				logger.Error("failed to load config", slog.String("error", err.Error()))
				return err
			}
			if employeeID == "" {
				employeeID = cfg.Employee.ID
			}

			appCtx, err = app.New(cmd.Context(), logger, cfg)
			if err != nil {
				logger.Error("failed to initialize app", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&home, "home", "", "snapshot directory for the file store (default ~/.blip)")
	root.PersistentFlags().StringVarP(&employeeID, "employee", "e", "", "employee id (default $BLIP_EMPLOYEE_ID)")

	root.AddCommand(
		clockInCmd(),
		clockOutCmd(),
		breakCmd(),
		statusCmd(),
		historyCmd(),
		settingsCmd(),
		geofenceCmd(),
		serveCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return err
	}
	return nil
}

func requireEmployee() (string, error) {
	if employeeID == "" {
		return "", errors.New("employee id required (--employee or BLIP_EMPLOYEE_ID)")
	}
	return employeeID, nil
}
