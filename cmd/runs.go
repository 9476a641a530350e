package cmd

import (
	"fmt"
	"os"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/storage"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/runs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runsLimit  int
	runsExport string
)

// runsCmd lists the synchronization run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent synchronization runs",
	Long: `Lists the most recent synchronization runs across all entity types.

Examples:
  # Last 20 runs
  runs

  # Last 5 runs, exporting one as a spreadsheet
  runs --limit 5
  runs --export <run-id>`,
	RunE: runRuns,
}

func init() {
	RootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().StringVar(&runsExport, "export", "", "Export this run id as <run-id>.xlsx instead of listing")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection required: %w", err)
	}

	store := inventory.NewStore(db)
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	svc := runs.NewService(store, client, cfg.Storage.Bucket, logg)

	if runsExport != "" {
		buf, err := svc.ExportXLSX(cmd.Context(), runsExport)
		if err != nil {
			return fmt.Errorf("failed to export run: %w", err)
		}
		file := runsExport + ".xlsx"
		if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logg.Info("Run exported", zap.String("file", file))
		return nil
	}

	list, err := svc.Recent(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(list) == 0 {
		logg.Info("No runs recorded yet")
		return nil
	}

	for _, run := range list {
		fields := []zap.Field{
			zap.String("run_id", run.RunID),
			zap.String("entity_type", run.EntityType),
			zap.String("status", run.Status),
			zap.Time("started_at", run.StartedAt),
			zap.Int("processed", run.RecordsProcessed),
			zap.Int("created", run.RecordsCreated),
			zap.Int("updated", run.RecordsUpdated),
		}
		if run.ErrorMessage != nil {
			fields = append(fields, zap.String("error", *run.ErrorMessage))
		}
		logg.Info("Run", fields...)
	}
	return nil
}
