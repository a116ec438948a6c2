package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/domain"
)

// ErrNotFound is returned when a lookup does not resolve to a row.
var ErrNotFound = errors.New("not found")

// MachineRepository defines the interface for machine operations
type MachineRepository interface {
	Create(ctx context.Context, machine domain.Machine) (domain.Machine, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Machine, error)
	List(ctx context.Context) ([]domain.Machine, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateRepository defines the interface for template operations
type TemplateRepository interface {
	Create(ctx context.Context, template domain.Template) (domain.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EntryRepository persists imported workshop entries. CreateBatch writes all
// records in one transaction; a failure partway leaves nothing behind.
type EntryRepository interface {
	CreateBatch(ctx context.Context, templateID, machineID uuid.UUID, records []domain.EntryData) (int, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID, limit, offset int) ([]domain.WorkshopEntry, error)
}

// ImportRunRepository stores import run audit records.
type ImportRunRepository interface {
	Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ImportRunStatus, details map[string]any) error
}

// OperationsRepository covers the plain create/list entities tracked
// alongside the import pipeline.
type OperationsRepository interface {
	CreateWorkOrder(ctx context.Context, order domain.WorkOrder) (domain.WorkOrder, error)
	ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error)
	CreateEquipment(ctx context.Context, equipment domain.Equipment) (domain.Equipment, error)
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	CreateInspection(ctx context.Context, inspection domain.Inspection) (domain.Inspection, error)
	ListInspections(ctx context.Context) ([]domain.Inspection, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
}
