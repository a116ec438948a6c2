package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/weldworks/workshop-api/internal/domain"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestTransformMapsRowsInOrder(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Temp (C)", "Pressure", "Operator"},
		{21.5, 101.3, "alice"},
		{22.0, nil, "bob"},
		{19.8, 99.1, "carol"},
	})
	mapping := map[string]string{
		"Temp (C)": "temperature",
		"Pressure": "pressure",
	}

	records, err := Transform(path, mapping)
	if err != nil {
		t.Fatalf("transform returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if len(first) != 2 {
		t.Fatalf("expected 2 fields per record, got %d", len(first))
	}
	if _, ok := first["Operator"]; ok {
		t.Fatalf("unmapped column leaked into output")
	}
	if got := first["temperature"]; got.Kind != domain.FieldNumber || got.Number != 21.5 {
		t.Fatalf("expected temperature 21.5, got %+v", got)
	}

	// Row 2's blank pressure cell must come through as an explicit null,
	// not a dropped key.
	pressure, ok := records[1]["pressure"]
	if !ok {
		t.Fatalf("blank cell dropped its key")
	}
	if !pressure.IsNull() {
		t.Fatalf("expected null pressure, got %+v", pressure)
	}

	if got := records[2]["pressure"]; got.Kind != domain.FieldNumber || got.Number != 99.1 {
		t.Fatalf("expected row order preserved, got %+v", got)
	}
}

func TestTransformMissingMappedColumnYieldsNull(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Temp (C)"},
		{21.5},
	})
	mapping := map[string]string{
		"Temp (C)": "temperature",
		"Humidity": "humidity",
	}

	records, err := Transform(path, mapping)
	if err != nil {
		t.Fatalf("transform returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	humidity, ok := records[0]["humidity"]
	if !ok || !humidity.IsNull() {
		t.Fatalf("expected null humidity for missing column, got %+v, present=%v", humidity, ok)
	}
}

func TestTransformPreservesCellTypes(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Reading", "Label", "Checked", "Logged"},
		{42.0, "weld-3", true, "2024-06-01"},
	})
	mapping := map[string]string{
		"Reading": "reading",
		"Label":   "label",
		"Checked": "checked",
		"Logged":  "logged",
	}

	records, err := Transform(path, mapping)
	if err != nil {
		t.Fatalf("transform returned error: %v", err)
	}

	record := records[0]
	if record["reading"].Kind != domain.FieldNumber {
		t.Fatalf("expected numeric reading, got %+v", record["reading"])
	}
	if record["label"].Kind != domain.FieldString || record["label"].Str != "weld-3" {
		t.Fatalf("expected string label, got %+v", record["label"])
	}
	if record["checked"].Kind != domain.FieldBool || !record["checked"].Bool {
		t.Fatalf("expected boolean checked, got %+v", record["checked"])
	}
	if record["logged"].Kind != domain.FieldTime {
		t.Fatalf("expected datetime logged, got %+v", record["logged"])
	}
}

func TestTransformHeaderOnlySheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Temp (C)", "Pressure"},
	})

	records, err := Transform(path, map[string]string{"Temp (C)": "temperature"})
	if err != nil {
		t.Fatalf("transform returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestTransformEmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)

	records, err := Transform(path, map[string]string{"Temp (C)": "temperature"})
	if err != nil {
		t.Fatalf("empty sheet should not be an error, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestTransformFileNotFound(t *testing.T) {
	_, err := Transform(filepath.Join(t.TempDir(), "missing.xlsx"), map[string]string{"a": "b"})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestTransformUnreadableFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xlsx")
	if err := os.WriteFile(path, []byte("not a spreadsheet"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := Transform(path, map[string]string{"a": "b"})
	if !errors.Is(err, ErrUnreadableFormat) {
		t.Fatalf("expected ErrUnreadableFormat, got %v", err)
	}
}
