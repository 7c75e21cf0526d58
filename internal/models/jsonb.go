package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBStringArray stores an ordered string list as a JSON document.
type JSONBStringArray []string

// Value implements the driver.Valuer interface. A string is returned so the
// same value binds to jsonb on Postgres and text on SQLite.
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONBStringArray", value)
	}
	if len(raw) == 0 {
		*a = JSONBStringArray{}
		return nil
	}
	return json.Unmarshal(raw, a)
}
