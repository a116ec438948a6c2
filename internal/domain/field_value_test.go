package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEntryDataJSONKeepsNullsAndTypes(t *testing.T) {
	logged := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	data := EntryData{
		"temperature": NumberValue(21.5),
		"pressure":    NullValue(),
		"operator":    StringValue("alice"),
		"checked":     BoolValue(true),
		"logged":      TimeValue(logged),
	}

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal into generic map failed: %v", err)
	}
	if value, ok := raw["pressure"]; !ok || value != nil {
		t.Fatalf("null field must be present as JSON null, got %v present=%v", value, ok)
	}
	if raw["temperature"] != 21.5 {
		t.Fatalf("number changed shape: %v", raw["temperature"])
	}

	restored, err := EntryDataFromJSONB(payload)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !restored["pressure"].IsNull() {
		t.Fatalf("null did not survive round trip: %+v", restored["pressure"])
	}
	if restored["logged"].Kind != FieldTime || !restored["logged"].Time.Equal(logged) {
		t.Fatalf("timestamp did not survive round trip: %+v", restored["logged"])
	}
	if restored["operator"].Kind != FieldString || restored["operator"].Str != "alice" {
		t.Fatalf("string did not survive round trip: %+v", restored["operator"])
	}
}
