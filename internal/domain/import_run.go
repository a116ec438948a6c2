package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportRunStatus tracks the lifecycle of one import execution.
type ImportRunStatus string

const (
	ImportRunPending   ImportRunStatus = "pending"
	ImportRunRunning   ImportRunStatus = "running"
	ImportRunCompleted ImportRunStatus = "completed"
	ImportRunFailed    ImportRunStatus = "failed"
)

// ImportRun is the audit record of a single import execution, created when
// a run is triggered and mutated as it progresses. Retained for audit; the
// import itself never depends on it.
type ImportRun struct {
	ID           uuid.UUID       `json:"id"`
	Filename     string          `json:"filename"`
	TemplateID   uuid.UUID       `json:"templateId"`
	ScheduledFor *time.Time      `json:"scheduledFor,omitempty"`
	Status       ImportRunStatus `json:"status"`
	Details      map[string]any  `json:"details"`
}

// NewImportRun builds a pending run record for the given file and template.
func NewImportRun(filename string, templateID uuid.UUID, scheduledFor *time.Time) ImportRun {
	return ImportRun{
		ID:           uuid.New(),
		Filename:     filename,
		TemplateID:   templateID,
		ScheduledFor: scheduledFor,
		Status:       ImportRunPending,
		Details:      map[string]any{},
	}
}
