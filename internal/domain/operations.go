package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operational records tracked alongside the import pipeline. These are
// plain create/list entities with no business logic of their own.

// WorkOrder is a client job routed through the workshop.
type WorkOrder struct {
	ID             uuid.UUID  `json:"id"`
	OrderID        string     `json:"orderId"`
	Client         string     `json:"client"`
	Description    *string    `json:"description,omitempty"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	AssignedWelder *string    `json:"assignedWelder,omitempty"`
}

// Equipment is a serviceable tool or fixture.
type Equipment struct {
	ID              uuid.UUID  `json:"id"`
	EquipmentID     string     `json:"equipmentId"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	LastServiceDate *time.Time `json:"lastServiceDate,omitempty"`
}

// Inspection is a QC result recorded against a work order.
type Inspection struct {
	ID           uuid.UUID `json:"id"`
	InspectionID string    `json:"inspectionId"`
	OrderID      string    `json:"orderId"`
	Inspector    string    `json:"inspector"`
	Result       string    `json:"result"`
	DefectType   *string   `json:"defectType,omitempty"`
}

// Employee is a workshop staff member.
type Employee struct {
	ID                  uuid.UUID  `json:"id"`
	EmployeeID          string     `json:"employeeId"`
	Name                string     `json:"name"`
	Role                *string    `json:"role,omitempty"`
	CertificationExpiry *time.Time `json:"certificationExpiry,omitempty"`
}

// Item is an inventory line with a reorder threshold.
type Item struct {
	ID           uuid.UUID `json:"id"`
	ItemID       string    `json:"itemId"`
	ItemName     string    `json:"itemName"`
	Quantity     int       `json:"quantity"`
	Unit         *string   `json:"unit,omitempty"`
	ReorderLevel int       `json:"reorderLevel"`
}
