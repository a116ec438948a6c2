package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FieldKind enumerates the scalar kinds an imported cell can carry.
type FieldKind int

const (
	FieldNull FieldKind = iota
	FieldBool
	FieldNumber
	FieldString
	FieldTime
)

// FieldValue is one tagged scalar in a WorkshopEntry payload. The field set
// is defined per Template at runtime, so entries carry values as dynamic
// kinds rather than a fixed struct.
type FieldValue struct {
	Kind   FieldKind
	Bool   bool
	Number float64
	Str    string
	Time   time.Time
}

// EntryData maps target field names (as defined by a Template's mapping) to
// imported values. Blank or absent source cells are stored as explicit nulls,
// never dropped keys.
type EntryData map[string]FieldValue

func NullValue() FieldValue            { return FieldValue{Kind: FieldNull} }
func BoolValue(v bool) FieldValue      { return FieldValue{Kind: FieldBool, Bool: v} }
func NumberValue(v float64) FieldValue { return FieldValue{Kind: FieldNumber, Number: v} }
func StringValue(v string) FieldValue  { return FieldValue{Kind: FieldString, Str: v} }
func TimeValue(v time.Time) FieldValue { return FieldValue{Kind: FieldTime, Time: v} }

// IsNull reports whether the value represents an absent cell.
func (v FieldValue) IsNull() bool { return v.Kind == FieldNull }

// MarshalJSON encodes the value as a plain JSON scalar; timestamps use
// RFC3339 so the payload stays readable in the JSONB column.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldNull:
		return []byte("null"), nil
	case FieldBool:
		return json.Marshal(v.Bool)
	case FieldNumber:
		return json.Marshal(v.Number)
	case FieldString:
		return json.Marshal(v.Str)
	case FieldTime:
		return json.Marshal(v.Time.Format(time.RFC3339))
	default:
		return nil, fmt.Errorf("unknown field kind %d", v.Kind)
	}
}

// UnmarshalJSON restores a tagged value from a JSON scalar. Strings that
// parse as RFC3339 timestamps come back as FieldTime, matching what
// MarshalJSON produced.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case nil:
		*v = NullValue()
	case bool:
		*v = BoolValue(value)
	case float64:
		*v = NumberValue(value)
	case string:
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			*v = TimeValue(ts)
		} else {
			*v = StringValue(value)
		}
	default:
		return fmt.Errorf("unsupported payload value %T", raw)
	}
	return nil
}
