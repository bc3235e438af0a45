package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/company-directory/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background jobs that maintain the directory datastore.`,
}

var sessionWorkerCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Prune expired sessions on a schedule",
	Long:  `Periodically hard-delete user_session rows whose expiry has passed.`,
	Run: func(cmd *cobra.Command, args []string) {
		startSessionWorker()
	},
}

var sweepSchedule string

func init() {
	sessionWorkerCmd.Flags().StringVar(&sweepSchedule, "schedule", "", "cron schedule, defaults to workers.session_sweep_schedule")
	workerCmd.AddCommand(sessionWorkerCmd)
}

func startSessionWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gdb, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}
	services := NewServices(config, gdb, db, lg)

	schedule := getStringFlag(sweepSchedule, config.Workers.SessionSweepSchedule)

	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slogPrintf{lg})))
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := services.Auth.PruneExpiredSessions(ctx); err != nil {
			lg.Error("session sweep failed", "error", err)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %q: %v\n", schedule, err)
		os.Exit(1)
	}

	lg.Info("session worker started", "schedule", schedule)
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down session worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-c.Stop().Done():
		lg.Info("session worker shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

// slogPrintf adapts slog to the Printf logger cron expects.
type slogPrintf struct {
	logger *slog.Logger
}

func (p slogPrintf) Printf(format string, args ...interface{}) {
	p.logger.Debug(fmt.Sprintf(format, args...), "component", "cron")
}
