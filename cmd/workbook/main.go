package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/workbook-backend/internal/app"
	"github.com/yungbote/workbook-backend/internal/platform/envutil"
)

var (
	configPath  string
	skipMigrate bool
)

var rootCmd = &cobra.Command{
	Use:   "workbook",
	Short: "Course workbook backend",
	Long: `Serves the course workbook API: workbooks, their weeks and activities,
plus the link rows and reference data around them.

Configuration is read from the environment, optionally overlaid on a YAML
file given with --config or CONFIG_FILE.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the metrics endpoint when enabled)",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE:  migrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", envutil.String("CONFIG_FILE", ""), "YAML config file")
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema before serving")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func open(ctx context.Context) (*app.App, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return app.New(ctx, cfg)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !skipMigrate {
		if err := a.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := a.Run(ctx); err != nil {
		a.Log.Error("server exited", "error", err)
		return err
	}
	a.Log.Info("server stopped")
	return nil
}

func migrate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Migrate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
