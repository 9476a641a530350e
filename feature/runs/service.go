package runs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"inventory-sync/core/storage"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// reportPrefix is where archived run reports live inside the bucket.
const reportPrefix = "reports/runs/"

// xlsxContentType is the MIME type for OOXML spreadsheets.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service handles run history operations: listing, spreadsheet export and
// report archival.
type Service struct {
	store  *inventory.Store
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new runs service.
func NewService(store *inventory.Store, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Recent returns the newest runs across all entity types.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	return s.store.RecentRuns(ctx, limit)
}

// Get returns one run by id, or (nil, nil) when the id is unknown.
func (s *Service) Get(ctx context.Context, runID string) (*models.IngestionRun, error) {
	return s.store.RunByID(ctx, runID)
}

var reportColumns = []string{
	"Run ID", "Entity Type", "Source System", "Status",
	"Started At", "Completed At",
	"Processed", "Created", "Updated",
	"Error", "Metadata",
}

// ExportXLSX renders one run as a spreadsheet report.
func (s *Service) ExportXLSX(ctx context.Context, runID string) (*bytes.Buffer, error) {
	run, err := s.store.RunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, col := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}

	completed := ""
	if run.CompletedAt != nil {
		completed = run.CompletedAt.Format(time.RFC3339)
	}
	errMsg := ""
	if run.ErrorMessage != nil {
		errMsg = *run.ErrorMessage
	}
	values := []any{
		run.RunID, run.EntityType, run.SourceSystem, run.Status,
		run.StartedAt.Format(time.RFC3339), completed,
		run.RecordsProcessed, run.RecordsCreated, run.RecordsUpdated,
		errMsg, run.Metadata,
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering report for run %s: %w", runID, err)
	}
	return buf, nil
}

// Archive exports a run report and uploads it to the report bucket. It
// returns the object name.
func (s *Service) Archive(ctx context.Context, runID string) (string, error) {
	buf, err := s.ExportXLSX(ctx, runID)
	if err != nil {
		return "", err
	}

	objectName := reportPrefix + runID + ".xlsx"
	_, err = s.client.PutObject(ctx, s.bucket, objectName, buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading report %s: %w", objectName, err)
	}

	s.logger.Info("Run report archived",
		zap.String("run_id", runID),
		zap.String("object", objectName),
	)
	return objectName, nil
}

// PruneReports removes archived reports last modified before the cutoff and
// returns how many were deleted.
func (s *Service) PruneReports(ctx context.Context, cutoff time.Time) (int, error) {
	objectsCh := make(chan minio.ObjectInfo)
	pruned := 0

	go func() {
		defer close(objectsCh)
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    reportPrefix,
			Recursive: true,
		}) {
			if obj.Err != nil {
				s.logger.Warn("Listing archived reports failed", zap.Error(obj.Err))
				continue
			}
			if obj.LastModified.After(cutoff) {
				continue
			}
			select {
			case objectsCh <- obj:
				pruned++
			case <-ctx.Done():
				return
			}
		}
	}()

	for removeErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil {
			return pruned, fmt.Errorf("removing report %s: %w", removeErr.ObjectName, removeErr.Err)
		}
	}
	return pruned, nil
}
