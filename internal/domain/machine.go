package domain

import (
	"github.com/google/uuid"
)

// Machine is a physical workshop machine that templates and imported
// entries attach to.
type Machine struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Type     *string        `json:"type,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// NewMachine builds a machine with a fresh identity.
func NewMachine(name, code string, machineType *string, metadata map[string]any) Machine {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Machine{
		ID:       uuid.New(),
		Name:     name,
		Code:     code,
		Type:     machineType,
		Metadata: metadata,
	}
}
