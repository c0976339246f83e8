// Package app wires the imputation domain to the HTTP surfaces. Both the
// gin UI server and the headless chi API delegate to TransferService.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"goimpute/adapters/excel"
	"goimpute/domain/core"
	"goimpute/domain/dataset"
	"goimpute/domain/impute"
	"goimpute/internal/errors"
	"goimpute/models"
	"goimpute/ports"

	"golang.org/x/sync/semaphore"
)

// TransferService implements the upload / process / download / cleanup
// lifecycle on top of a file store and an optional transfer ledger.
type TransferService struct {
	store       ports.FileStorePort
	ledger      ports.TransferLedgerPort
	exporter    *excel.Exporter
	previewRows int
	procSem     *semaphore.Weighted
}

// NewTransferService creates the service. ledger may be nil; ledger
// failures are logged and never fail a request.
func NewTransferService(store ports.FileStorePort, ledger ports.TransferLedgerPort, previewRows int, maxConcurrentProcs int64) *TransferService {
	if previewRows <= 0 {
		previewRows = 50
	}
	if maxConcurrentProcs <= 0 {
		maxConcurrentProcs = 4
	}
	return &TransferService{
		store:       store,
		ledger:      ledger,
		exporter:    excel.NewExporter(),
		previewRows: previewRows,
		procSem:     semaphore.NewWeighted(maxConcurrentProcs),
	}
}

// Upload stores an incoming CSV and returns its metadata. The file is
// parsed once to confirm it is valid CSV; invalid uploads are removed
// before the error is returned.
func (s *TransferService) Upload(ctx context.Context, originalFilename string, r io.Reader) (*models.FileInfo, error) {
	if strings.TrimSpace(originalFilename) == "" {
		return nil, errors.ValidationError("No file selected")
	}
	if !strings.HasSuffix(strings.ToLower(originalFilename), ".csv") {
		return nil, errors.ValidationError("Only CSV files are allowed")
	}

	stored := core.NewStoredName(originalFilename)
	size, err := s.store.Save(ctx, stored, r)
	if err != nil {
		return nil, err
	}

	table, err := s.readTable(ctx, stored)
	if err != nil {
		if _, rmErr := s.store.Remove(ctx, stored); rmErr != nil {
			log.Printf("[Transfer] Failed to remove invalid upload %s: %v", stored, rmErr)
		}
		return nil, errors.InvalidCSV(fmt.Sprintf("Invalid CSV file: %v", err), err)
	}

	info := &models.FileInfo{
		Filename:         stored.String(),
		OriginalFilename: originalFilename,
		Rows:             table.RowCount(),
		Columns:          table.ColumnCount(),
		ColumnNames:      table.Headers,
		FileSize:         size,
	}

	s.record(ctx, ports.TransferEvent{
		Kind:       ports.TransferUploaded,
		StoredName: stored.String(),
		Original:   originalFilename,
		SizeBytes:  size,
	})

	return info, nil
}

// Process runs mean imputation on a previously uploaded file and writes the
// processed CSV next to it. Concurrent calls are bounded by a weighted
// semaphore; waiters queue until capacity frees up.
func (s *TransferService) Process(ctx context.Context, filename string) (*models.ProcessResponse, error) {
	stored, err := core.ParseStoredName(filename)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	if !s.store.Exists(ctx, stored) {
		return nil, errors.NotFound("File")
	}

	if err := s.procSem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "processing capacity wait interrupted")
	}
	defer s.procSem.Release(1)

	table, err := s.readTable(ctx, stored)
	if err != nil {
		return nil, errors.InvalidCSV(fmt.Sprintf("Invalid CSV file: %v", err), err)
	}

	result, err := impute.Run(table)
	if err != nil {
		if err == impute.ErrNoNumericColumns {
			return nil, errors.NoNumericData("No numeric columns found for imputation")
		}
		return nil, errors.Wrap(err, "imputation failed")
	}

	processedName := stored.Processed()
	var buf bytes.Buffer
	if err := result.Processed.WriteCSV(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode processed CSV")
	}
	written, err := s.store.Save(ctx, processedName, &buf)
	if err != nil {
		return nil, err
	}

	resp := &models.ProcessResponse{
		Status:            "success",
		Message:           "File processed successfully",
		ProcessedFilename: processedName.String(),
		Stats:             summaryToStats(result.Summary),
		PreviewData:       buildPreview(result, s.previewRows),
		ImputationFlags:   capFlags(result.Flags, s.previewRows),
		NumericColumns:    result.NumericColumns,
	}

	s.record(ctx, ports.TransferEvent{
		Kind:       ports.TransferProcessed,
		StoredName: processedName.String(),
		Original:   stored.Original(),
		SizeBytes:  written,
	})

	return resp, nil
}

// Download describes a stored file for streaming back to the client.
type Download struct {
	Content  io.ReadCloser
	Name     string
	Size     int64
	MimeType string
}

// OpenDownload opens a processed file and derives its attachment name.
func (s *TransferService) OpenDownload(ctx context.Context, filename string) (*Download, error) {
	stored, err := core.ParseStoredName(filename)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	size, err := s.store.Size(ctx, stored)
	if err != nil {
		return nil, err
	}
	content, err := s.store.Open(ctx, stored)
	if err != nil {
		return nil, err
	}
	return &Download{
		Content:  content,
		Name:     stored.DownloadName(),
		Size:     size,
		MimeType: "text/csv",
	}, nil
}

// ExportXLSX converts a stored CSV into an XLSX workbook written to w.
func (s *TransferService) ExportXLSX(ctx context.Context, filename string, w io.Writer) (string, error) {
	stored, err := core.ParseStoredName(filename)
	if err != nil {
		return "", errors.ValidationError(err.Error())
	}
	table, err := s.readTable(ctx, stored)
	if err != nil {
		return "", err
	}
	if err := s.exporter.Export(table, w); err != nil {
		return "", errors.Wrap(err, "XLSX export failed")
	}
	name := strings.TrimSuffix(stored.DownloadName(), ".csv") + ".xlsx"
	return name, nil
}

// Cleanup removes the named files, returning those actually deleted.
// Unknown names are skipped silently, matching best-effort semantics.
func (s *TransferService) Cleanup(ctx context.Context, filenames []string) ([]string, error) {
	cleaned := []string{}
	for _, filename := range filenames {
		stored, err := core.ParseStoredName(filename)
		if err != nil {
			continue
		}
		removed, err := s.store.Remove(ctx, stored)
		if err != nil {
			return cleaned, err
		}
		if removed {
			cleaned = append(cleaned, stored.String())
			s.record(ctx, ports.TransferEvent{
				Kind:       ports.TransferCleaned,
				StoredName: stored.String(),
				Original:   stored.Original(),
			})
		}
	}
	return cleaned, nil
}

// RecentEvents exposes the transfer ledger, when one is configured.
func (s *TransferService) RecentEvents(ctx context.Context, limit int) ([]ports.TransferEvent, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.ListRecent(ctx, limit)
}

func (s *TransferService) readTable(ctx context.Context, name core.StoredName) (*dataset.Table, error) {
	content, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer content.Close()
	return dataset.ReadCSV(content)
}

func (s *TransferService) record(ctx context.Context, event ports.TransferEvent) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, event); err != nil {
		log.Printf("[Ledger] Failed to record %s event for %s: %v", event.Kind, event.StoredName, err)
	}
}

func summaryToStats(sum impute.Summary) models.Stats {
	return models.Stats{
		TotalRows:        sum.TotalRows,
		TotalColumns:     sum.TotalColumns,
		NumericColumns:   sum.NumericColumnCount,
		ColumnMeans:      sum.ColumnMeans,
		ColumnStdDevs:    sum.ColumnStdDevs,
		ImputedCounts:    sum.ImputedCounts,
		TotalImputations: sum.TotalImputations,
		MissingDataRate:  sum.MissingDataRate,
	}
}

// buildPreview converts the first previewRows rows of the processed table
// into ordered row objects. Numeric cells become numbers, missing cells
// become nulls, everything else stays a string.
func buildPreview(result *impute.Result, previewRows int) []models.PreviewRow {
	table := result.Processed
	numeric := make(map[string]bool, len(result.NumericColumns))
	for _, name := range result.NumericColumns {
		numeric[name] = true
	}

	count := table.RowCount()
	if count > previewRows {
		count = previewRows
	}

	preview := make([]models.PreviewRow, 0, count)
	for row := 0; row < count; row++ {
		pr := models.PreviewRow{
			Columns: append([]string(nil), table.Headers...),
			Values:  make(map[string]interface{}, len(table.Headers)),
		}
		for col, name := range table.Headers {
			cell := table.Cell(row, col)
			switch {
			case dataset.IsMissing(cell):
				pr.Values[name] = nil
			case numeric[name]:
				v, _ := dataset.ParseNumeric(cell)
				pr.Values[name] = v
			default:
				pr.Values[name] = cell
			}
		}
		preview = append(preview, pr)
	}
	return preview
}

func capFlags(flags map[string][]bool, previewRows int) map[string][]bool {
	capped := make(map[string][]bool, len(flags))
	for name, mask := range flags {
		if len(mask) > previewRows {
			mask = mask[:previewRows]
		}
		capped[name] = mask
	}
	return capped
}
