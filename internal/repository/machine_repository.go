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

type machineRepository struct {
	pool *pgxpool.Pool
}

// NewMachineRepository wires a repository backed by pgxpool.
func NewMachineRepository(pool *pgxpool.Pool) MachineRepository {
	return &machineRepository{pool: pool}
}

func (r *machineRepository) Create(ctx context.Context, machine domain.Machine) (domain.Machine, error) {
	if machine.ID == uuid.Nil {
		machine.ID = uuid.New()
	}
	if machine.Metadata == nil {
		machine.Metadata = map[string]any{}
	}

	metadataJSON, err := json.Marshal(machine.Metadata)
	if err != nil {
		return domain.Machine{}, fmt.Errorf("failed to marshal machine metadata: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO machines (id, name, code, type, metadata)
		 VALUES ($1, $2, $3, $4, $5)`,
		machine.ID,
		machine.Name,
		machine.Code,
		machine.Type,
		metadataJSON,
	)
	if err != nil {
		return domain.Machine{}, fmt.Errorf("failed to create machine: %w", err)
	}

	return machine, nil
}

func (r *machineRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Machine, error) {
	var (
		machine      domain.Machine
		metadataJSON []byte
	)
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, code, type, metadata FROM machines WHERE id = $1`,
		id,
	).Scan(&machine.ID, &machine.Name, &machine.Code, &machine.Type, &metadataJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Machine{}, fmt.Errorf("machine %s: %w", id, ErrNotFound)
		}
		return domain.Machine{}, fmt.Errorf("failed to get machine: %w", err)
	}

	if err := json.Unmarshal(metadataJSON, &machine.Metadata); err != nil {
		return domain.Machine{}, fmt.Errorf("failed to unmarshal machine metadata: %w", err)
	}

	return machine, nil
}

func (r *machineRepository) List(ctx context.Context) ([]domain.Machine, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, code, type, metadata FROM machines ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	defer rows.Close()

	machines := []domain.Machine{}
	for rows.Next() {
		var (
			machine      domain.Machine
			metadataJSON []byte
		)
		if scanErr := rows.Scan(&machine.ID, &machine.Name, &machine.Code, &machine.Type, &metadataJSON); scanErr != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", scanErr)
		}
		if err := json.Unmarshal(metadataJSON, &machine.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal machine metadata: %w", err)
		}
		machines = append(machines, machine)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate machines: %w", rowsErr)
	}

	return machines, nil
}

func (r *machineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Templates and their entries cascade at the schema level.
	tag, err := r.pool.Exec(ctx, `DELETE FROM machines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete machine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}
	return nil
}
