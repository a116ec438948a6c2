package domain

import (
	"github.com/google/uuid"
)

// Template is a named column-mapping configuration bound to one machine.
// Mapping keys are source spreadsheet column names, values are the target
// field names written into WorkshopEntry payloads.
type Template struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	MachineID   uuid.UUID         `json:"machineId"`
	Mapping     map[string]string `json:"mapping"`
	Active      bool              `json:"active"`
}

// NewTemplate builds an active template with a fresh identity.
func NewTemplate(name string, description *string, machineID uuid.UUID, mapping map[string]string) Template {
	return Template{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		MachineID:   machineID,
		Mapping:     copyMapping(mapping),
		Active:      true,
	}
}

// WithMapping returns a template with a replaced mapping. Edits take effect
// on the next import run; already-imported entries are unaffected.
func (t Template) WithMapping(mapping map[string]string) Template {
	t.Mapping = copyMapping(mapping)
	return t
}

func copyMapping(mapping map[string]string) map[string]string {
	copied := make(map[string]string, len(mapping))
	for k, v := range mapping {
		copied[k] = v
	}
	return copied
}
