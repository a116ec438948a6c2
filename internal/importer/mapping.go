package importer

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/weldworks/workshop-api/internal/domain"
)

var (
	// ErrFileNotFound is returned when the spreadsheet path does not resolve.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnreadableFormat is returned when a file cannot be parsed as a spreadsheet.
	ErrUnreadableFormat = errors.New("unreadable spreadsheet format")

	// ErrTemplateNotFound is returned when an import targets a template that
	// does not exist or is inactive.
	ErrTemplateNotFound = errors.New("template not found")

	timeLayouts = []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
		"01-02-06",
		"1/2/06 15:04",
	}
)

// Transform reads the first sheet of the spreadsheet at filePath and builds
// one record per data row (header excluded), in file order. For every
// (sourceColumn, targetField) pair in the mapping, the target field receives
// the cell value under sourceColumn, type-preserved; blank or absent cells
// and mapping keys missing from the sheet yield an explicit null. Source
// columns not present in the mapping are dropped. The transform has no side
// effects beyond reading the file.
func Transform(filePath string, mapping map[string]string) ([]domain.EntryData, error) {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []domain.EntryData{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFormat, err)
	}
	if len(rows) == 0 {
		// An empty sheet is not an error; it just yields nothing.
		return []domain.EntryData{}, nil
	}

	columns := columnIndex(rows[0])

	records := make([]domain.EntryData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(domain.EntryData, len(mapping))
		for column, field := range mapping {
			record[field] = cellValue(row, columns, column)
		}
		records = append(records, record)
	}

	return records, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return index
}

func cellValue(row []string, columns map[string]int, column string) domain.FieldValue {
	idx, ok := columns[strings.TrimSpace(column)]
	if !ok || idx >= len(row) {
		return domain.NullValue()
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return domain.NullValue()
	}
	return parseCell(raw)
}

// parseCell preserves the cell's type: numbers stay numeric, dates stay
// dates, booleans stay booleans, everything else is text.
func parseCell(raw string) domain.FieldValue {
	switch strings.ToLower(raw) {
	case "true":
		return domain.BoolValue(true)
	case "false":
		return domain.BoolValue(false)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return domain.NumberValue(f)
	}
	if ts, err := parseTimestamp(raw); err == nil {
		return domain.TimeValue(ts)
	}
	return domain.StringValue(raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
