package cmd

import (
	"fmt"
	"os"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/source"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/labs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileExport string

// reconcileCmd matches asset records from the source system against the
// canonical lab registry.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile asset records against the lab registry",
	Long: `Fetches the current asset records from the source system and matches them
against the canonical lab registry, in priority order: labeled and identity
verified, labeled only, identity fallback.

Examples:
  # Report to the console
  reconcile

  # Also write the full report as a spreadsheet
  reconcile --export report.xlsx`,
	RunE: runReconcile,
}

func init() {
	RootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileExport, "export", "", "Write the full report to this XLSX file")
}

func runReconcile(cmd *cobra.Command, args []string) error {
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
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate warehouse tables: %w", err)
	}

	client := source.New(cfg.Source, logg)
	svc := labs.NewService(store, source.NewAssetsAPI(client), cfg.Source.System, cfg.Reconcile.CacheTTL(), logg)

	outcome, err := svc.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	printReconcileReport(logg, outcome.Report)

	if reconcileExport != "" {
		buf, err := labs.ExportReportXLSX(outcome.Report)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := os.WriteFile(reconcileExport, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logg.Info("Report exported", zap.String("file", reconcileExport))
	}
	return nil
}

// printReconcileReport logs the report summary plus samples of warnings and
// unmatched candidates.
func printReconcileReport(l *zap.Logger, report *reconcile.Report) {
	s := report.Summary

	l.Info("Reconciliation report",
		zap.Int("total_candidates", s.TotalCandidates),
		zap.Int("verified", s.Verified),
		zap.Int("name_only", s.NameOnly),
		zap.Int("fallback", s.Fallback),
		zap.Int("unmatched", s.Unmatched),
		zap.Int("warnings", s.Warnings),
	)

	// Show a sample of accepted discrepancies (max 5 for logger)
	shown := 0
	for _, r := range report.Results {
		if r.Warning == "" {
			continue
		}
		if shown == 5 {
			l.Warn("Additional warnings not shown", zap.Int("count", s.Warnings-shown))
			break
		}
		l.Warn("Accepted with warning",
			zap.String("candidate", r.CandidateID),
			zap.String("key", r.CanonicalKey),
			zap.String("warning", r.Warning),
		)
		shown++
	}

	for i, c := range report.Unmatched {
		if i == 5 {
			l.Warn("Additional unmatched candidates not shown", zap.Int("count", len(report.Unmatched)-i))
			break
		}
		l.Warn("Unmatched candidate",
			zap.String("candidate", c.ExternalID),
			zap.String("label", c.Label),
			zap.String("owner", c.OwnerIdentity),
		)
	}
}
