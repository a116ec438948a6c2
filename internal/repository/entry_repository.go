package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/weldworks/workshop-api/internal/db"
	"github.com/weldworks/workshop-api/internal/domain"
)

type entryRepository struct {
	conn *db.Connection
}

// NewEntryRepository wires a repository backed by the shared connection so
// batch writes can run inside a single transaction.
func NewEntryRepository(conn *db.Connection) EntryRepository {
	return &entryRepository{conn: conn}
}

// CreateBatch writes one workshop entry per record, all stamped with the
// same import time, inside one transaction. If any insert fails the whole
// batch rolls back and no entries remain visible.
func (r *entryRepository) CreateBatch(ctx context.Context, templateID, machineID uuid.UUID, records []domain.EntryData) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	importedAt := time.Now().UTC()

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, record := range records {
			payload, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to marshal entry data: %w", err)
			}
			batch.Queue(
				`INSERT INTO workshop_entries (id, template_id, machine_id, imported_at, data)
				 VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(),
				templateID,
				machineID,
				importedAt,
				payload,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range records {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert workshop entry: %w", err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

func (r *entryRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID, limit, offset int) ([]domain.WorkshopEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.Pool.Query(
		ctx,
		`SELECT id, template_id, machine_id, imported_at, data
		 FROM workshop_entries
		 WHERE template_id = $1
		 ORDER BY imported_at, id
		 LIMIT $2 OFFSET $3`,
		templateID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workshop entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.WorkshopEntry{}
	for rows.Next() {
		var (
			entry       domain.WorkshopEntry
			payloadJSON []byte
		)
		if scanErr := rows.Scan(&entry.ID, &entry.TemplateID, &entry.MachineID, &entry.ImportedAt, &payloadJSON); scanErr != nil {
			return nil, fmt.Errorf("failed to scan workshop entry: %w", scanErr)
		}
		data, err := domain.EntryDataFromJSONB(payloadJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry data: %w", err)
		}
		entry.Data = data
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate workshop entries: %w", rowsErr)
	}

	return entries, nil
}
