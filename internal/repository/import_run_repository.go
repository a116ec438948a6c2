package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weldworks/workshop-api/internal/domain"
)

type importRunRepository struct {
	pool *pgxpool.Pool
}

// NewImportRunRepository wires a repository backed by pgxpool.
func NewImportRunRepository(pool *pgxpool.Pool) ImportRunRepository {
	return &importRunRepository{pool: pool}
}

func (r *importRunRepository) Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Details == nil {
		run.Details = map[string]any{}
	}

	detailsJSON, err := json.Marshal(run.Details)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("failed to marshal run details: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO excel_imports (id, filename, template_id, scheduled_for, status, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID,
		run.Filename,
		run.TemplateID,
		run.ScheduledFor,
		run.Status,
		detailsJSON,
	)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("failed to create import run: %w", err)
	}

	return run, nil
}

func (r *importRunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ImportRunStatus, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal run details: %w", err)
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE excel_imports SET status = $2, details = $3 WHERE id = $1`,
		id,
		status,
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import run %s: %w", id, ErrNotFound)
	}

	return nil
}
