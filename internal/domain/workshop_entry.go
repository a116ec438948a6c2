package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkshopEntry is one persisted record produced from one imported
// spreadsheet row. Entries are immutable after creation; they are removed
// only when their owning template is deleted. MachineID is a denormalized
// copy of the template's machine at import time, so later template edits do
// not rewrite history.
//
// The JSON shape {id, templateId, machineId, importedAt, data} is consumed
// by downstream reporting and must not change.
type WorkshopEntry struct {
	ID         uuid.UUID `json:"id"`
	TemplateID uuid.UUID `json:"templateId"`
	MachineID  uuid.UUID `json:"machineId"`
	ImportedAt time.Time `json:"importedAt"`
	Data       EntryData `json:"data"`
}

// DataAsJSONB serializes the payload for the JSONB column.
func (e WorkshopEntry) DataAsJSONB() (json.RawMessage, error) {
	if e.Data == nil {
		e.Data = EntryData{}
	}
	return json.Marshal(e.Data)
}

// EntryDataFromJSONB restores a payload from its JSONB representation.
func EntryDataFromJSONB(raw json.RawMessage) (EntryData, error) {
	var data EntryData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
