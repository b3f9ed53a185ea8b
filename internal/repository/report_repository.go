package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// ReportRepository persists validation reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a finished validation report.
func (r *ReportRepository) Create(ctx context.Context, report *models.ValidationReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO validation_reports (id, findings, repaired, took_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		report.ID, report.FindingsJS, report.Repaired, report.TookMS, report.CreatedAt); err != nil {
		return fmt.Errorf("create validation report: %w", err)
	}
	return nil
}

// FindByID loads a report by its run id.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ValidationReport, error) {
	const query = `SELECT id, findings, repaired, took_ms, created_at FROM validation_reports WHERE id = $1`
	var report models.ValidationReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRecent returns the latest reports, newest first.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]models.ValidationReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT id, findings, repaired, took_ms, created_at FROM validation_reports ORDER BY created_at DESC LIMIT $1`
	var reports []models.ValidationReport
	if err := r.db.SelectContext(ctx, &reports, query, limit); err != nil {
		return nil, fmt.Errorf("list validation reports: %w", err)
	}
	return reports, nil
}
