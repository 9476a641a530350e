package cmd

import (
	"context"
	"fmt"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/source"
	"inventory-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// expected columns per warehouse table, checked by doctor.
var doctorTables = map[string][]string{
	"raw_entities":   {"entity_type", "source_system", "external_id", "payload", "content_hash_basic", "content_hash_enriched", "run_id", "ingested_at", "enriched_at"},
	"ingestion_runs": {"run_id", "source_system", "entity_type", "started_at", "completed_at", "status", "records_processed", "records_created", "records_updated", "error_message", "metadata"},
	"labs":           {"lab_key", "owner_email", "display_name", "notes"},
}

// doctorCmd checks configuration and connectivity of every collaborator.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and connectivity",
	Long: `Verifies the service can reach its collaborators: the warehouse database
(including table schemas), the report bucket and the source system API.`,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	healthy := true

	// 1. Warehouse database and schemas
	if db, err := database.Connect(cfg.Database); err != nil {
		logg.Error("Database unreachable", zap.Error(err))
		healthy = false
	} else {
		logg.Info("Database reachable",
			zap.String("driver", cfg.Database.Driver),
			zap.String("name", cfg.Database.Name),
		)
		for table, columns := range doctorTables {
			missing, err := database.VerifyTable(db, table, columns)
			if err != nil {
				logg.Error("Table check failed", zap.String("table", table), zap.Error(err))
				healthy = false
				continue
			}
			if len(missing) > 0 {
				logg.Error("Table schema incomplete",
					zap.String("table", table),
					zap.Strings("missing_columns", missing),
				)
				healthy = false
				continue
			}
			logg.Info("Table ok", zap.String("table", table))
		}
	}

	// 2. Report bucket
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Error("Storage client creation failed", zap.Error(err))
		healthy = false
	} else if exists, err := client.BucketExists(ctx, cfg.Storage.Bucket); err != nil {
		logg.Error("Storage unreachable", zap.Error(err))
		healthy = false
	} else if !exists {
		logg.Error("Report bucket missing", zap.String("bucket", cfg.Storage.Bucket))
		healthy = false
	} else {
		logg.Info("Report bucket ok", zap.String("bucket", cfg.Storage.Bucket))
	}

	// 3. Source system endpoints
	client := source.New(cfg.Source, logg)
	apis := []source.API{source.NewUsersAPI(client), source.NewAssetsAPI(client)}
	err = source.EachAPI(ctx, apis, func(ctx context.Context, api source.API) error {
		total, err := api.Count(ctx, source.SearchQuery{})
		if err != nil {
			return err
		}
		logg.Info("Source endpoint ok",
			zap.String("endpoint", api.Name()),
			zap.Int("records", total),
		)
		return nil
	})
	if err != nil {
		logg.Error("Source system unreachable", zap.Error(err))
		healthy = false
	}

	if !healthy {
		return fmt.Errorf("one or more checks failed")
	}
	logg.Info("All checks passed")
	return nil
}
