package cmd

import (
	"fmt"
	"os"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/labs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// labsCmd is the parent command for registry operations.
var labsCmd = &cobra.Command{
	Use:   "labs",
	Short: "Manage the canonical lab registry",
	Long:  `Lists and imports the canonical lab registry that reconciliation matches against.`,
}

// labsListCmd lists the registry.
var labsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry entries",
	RunE:  runLabsList,
}

// labsImportCmd imports the registry from a spreadsheet.
var labsImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import registry entries from a spreadsheet",
	Long: `Imports lab registry entries from an XLSX file.

The first sheet is read; the first row is treated as a header. Columns are
lab key, owner email, display name and optional notes.`,
	Args: cobra.ExactArgs(1),
	RunE: runLabsImport,
}

func init() {
	RootCmd.AddCommand(labsCmd)
	labsCmd.AddCommand(labsListCmd)
	labsCmd.AddCommand(labsImportCmd)
}

// labsService builds a registry-only labs service; no source endpoint needed.
func labsService() (*labs.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection required: %w", err)
	}

	store := inventory.NewStore(db)
	if err := store.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate warehouse tables: %w", err)
	}

	return labs.NewService(store, nil, cfg.Source.System, cfg.Reconcile.CacheTTL(), logg), logg, nil
}

func runLabsList(cmd *cobra.Command, args []string) error {
	svc, logg, err := labsService()
	if err != nil {
		return err
	}
	defer logg.Sync()

	list, err := svc.Labs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list labs: %w", err)
	}
	if len(list) == 0 {
		logg.Info("Registry is empty, import one with 'labs import'")
		return nil
	}

	for _, lab := range list {
		logg.Info("Lab",
			zap.String("key", lab.LabKey),
			zap.String("owner", lab.OwnerEmail),
			zap.String("display_name", lab.DisplayName),
		)
	}
	return nil
}

func runLabsImport(cmd *cobra.Command, args []string) error {
	svc, logg, err := labsService()
	if err != nil {
		return err
	}
	defer logg.Sync()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer file.Close()

	summary, err := svc.ImportXLSX(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logg.Info("Import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("errors", len(summary.Errors)),
	)
	for _, msg := range summary.Errors {
		logg.Warn("Import row skipped", zap.String("detail", msg))
	}
	return nil
}
