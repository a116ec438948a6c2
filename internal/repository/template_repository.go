package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weldworks/workshop-api/internal/domain"
)

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository wires a repository backed by pgxpool.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) Create(ctx context.Context, template domain.Template) (domain.Template, error) {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}

	mappingJSON, err := json.Marshal(template.Mapping)
	if err != nil {
		return domain.Template{}, fmt.Errorf("failed to marshal template mapping: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO templates (id, name, description, machine_id, mapping, active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		template.ID,
		template.Name,
		template.Description,
		template.MachineID,
		mappingJSON,
		template.Active,
	)
	if err != nil {
		return domain.Template{}, fmt.Errorf("failed to create template: %w", err)
	}

	return template, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	var (
		template    domain.Template
		mappingJSON []byte
	)
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, description, machine_id, mapping, active FROM templates WHERE id = $1`,
		id,
	).Scan(&template.ID, &template.Name, &template.Description, &template.MachineID, &mappingJSON, &template.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return domain.Template{}, fmt.Errorf("failed to get template: %w", err)
	}

	if err := json.Unmarshal(mappingJSON, &template.Mapping); err != nil {
		return domain.Template{}, fmt.Errorf("failed to unmarshal template mapping: %w", err)
	}

	return template, nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, description, machine_id, mapping, active FROM templates ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		var (
			template    domain.Template
			mappingJSON []byte
		)
		if scanErr := rows.Scan(&template.ID, &template.Name, &template.Description, &template.MachineID, &mappingJSON, &template.Active); scanErr != nil {
			return nil, fmt.Errorf("failed to scan template: %w", scanErr)
		}
		if err := json.Unmarshal(mappingJSON, &template.Mapping); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template mapping: %w", err)
		}
		templates = append(templates, template)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", rowsErr)
	}

	return templates, nil
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Owned workshop entries cascade at the schema level.
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}
