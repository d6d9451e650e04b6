package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/normalizer"
	"go.uber.org/zap"
)

// ImportBatchSize is the number of rows written per insert statement
const ImportBatchSize = 100

// CatalogRepository is the interface that wraps bulk access to the resources table
type CatalogRepository interface {
	// Method GetAll retrieve every resource stored in the table.
	GetAll(ctx context.Context) ([]models.Resource, error)
	// Method UpsertBatch insert or overwrite "resources" in one statement. Resource ids must be numeric.
	UpsertBatch(ctx context.Context, resources []models.Resource) error
	// Method DeleteAll removes every resource and returns the number of deleted rows.
	DeleteAll(ctx context.Context) (int64, error)
}

// ImportReport summarizes an import run
type ImportReport struct {
	Parsed   int
	Skipped  int
	Inserted int
	Failed   int
	Batches  int
	Deleted  int64
}

type catalogService struct {
	repo   CatalogRepository
	logger *zap.Logger
}

// NewCatalogService creates a new service moving the catalog between JSON files and the database
func NewCatalogService(repo CatalogRepository, logger *zap.Logger) *catalogService {
	return &catalogService{
		repo:   repo,
		logger: logger,
	}
}

// Export groups the resources table by category in the worker API layout
func (s *catalogService) Export(ctx context.Context) (*models.ExportDocument, error) {
	resources, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export resources: %w", err)
	}

	doc := &models.ExportDocument{Categories: make(map[string][]models.ExportItem)}
	for _, r := range resources {
		category := string(r.Category)
		if category == "" {
			category = "uncategorized"
		}
		doc.Categories[category] = append(doc.Categories[category], models.ExportItem{
			ID:     r.ID,
			Title:  r.Title,
			Ext:    r.Filetype,
			URL:    r.DownloadURL,
			Credit: r.Credit,
		})
	}
	return doc, nil
}

// Import normalizes a catalog document and writes it to the resources table in batches.
// Resources without a numeric id cannot be stored and are skipped. A failed batch is counted
// and the import continues with the next one.
func (s *catalogService) Import(ctx context.Context, raw json.RawMessage, replace bool) (*ImportReport, error) {
	resources := normalizer.NormalizeDocument(raw)
	report := &ImportReport{Parsed: len(resources)}
	if len(resources) == 0 {
		return nil, fmt.Errorf("document contains no resources")
	}

	rows := make([]models.Resource, 0, len(resources))
	for _, r := range resources {
		if !r.ID.IsNumeric() {
			report.Skipped++
			continue
		}
		rows = append(rows, prepareImport(r))
	}

	if replace {
		deleted, err := s.repo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to clear resources: %w", err)
		}
		report.Deleted = deleted
	}

	for start := 0; start < len(rows); start += ImportBatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := min(start+ImportBatchSize, len(rows))
		batch := rows[start:end]
		report.Batches++

		if err := s.repo.UpsertBatch(ctx, batch); err != nil {
			s.logger.Error("failed to import batch",
				zap.Int("batch", report.Batches),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			report.Failed += len(batch)
			continue
		}
		report.Inserted += len(batch)
	}

	s.logger.Info("resource import finished",
		zap.Int("inserted", report.Inserted),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// prepareImport fills the preset subcategory and the mirror download URL of rows that lack them
func prepareImport(r models.Resource) models.Resource {
	if r.Category == models.CategoryPresets && r.Subcategory == "" && r.Software != "" {
		if strings.EqualFold(r.Software, "davinci resolve") {
			r.Subcategory = "davinci"
		} else {
			r.Subcategory = "adobe"
		}
	}
	if r.DownloadURL == "" {
		r.DownloadURL = MirrorURL(r)
	}
	return r
}

// MirrorURL builds the GitHub mirror location of a resource from its title, credit and file type
func MirrorURL(r models.Resource) string {
	name := url.PathEscape(strings.ToLower(r.Title))
	if r.Credit != "" {
		name += "__" + url.PathEscape(r.Credit)
	}
	dir := string(r.Category)
	if r.Category == models.CategoryPresets && r.Subcategory != "" {
		dir += "/" + r.Subcategory
	}
	return fmt.Sprintf("%s/%s/%s.%s", GitHubRawBase, dir, name, fileExtension(r))
}
