package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON-backed column types shared by the catalog models. Stored as JSON
// text so the same schema loads under Postgres and the sqlite dev driver.

// StringArray persists an ordered list of strings.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	return scanJSON(src, a, "StringArray")
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return marshalJSON(a)
}

// StringMap persists a free-form string-to-string mapping (product specs).
type StringMap map[string]string

func (m *StringMap) Scan(src any) error {
	return scanJSON(src, m, "StringMap")
}

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return marshalJSON(m)
}

// IntMap persists a string-to-int mapping (per-variant stock).
type IntMap map[string]int

func (m *IntMap) Scan(src any) error {
	return scanJSON(src, m, "IntMap")
}

func (m IntMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return marshalJSON(m)
}

// Sum returns the aggregate over all values.
func (m IntMap) Sum() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func scanJSON(src, dest any, typeName string) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case string:
		return unmarshalJSON([]byte(v), dest, typeName)
	case []byte:
		return unmarshalJSON(v, dest, typeName)
	default:
		return fmt.Errorf("%s: unsupported Scan type %T", typeName, src)
	}
}

func unmarshalJSON(raw []byte, dest any, typeName string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: decode %q: %w", typeName, raw, err)
	}
	return nil
}

func marshalJSON(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
