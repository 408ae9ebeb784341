package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONB stores raw JSON in a jsonb column. GORM would otherwise persist a
// []byte as bytea.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) < 1 {
		return nil, nil
	}

	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("could not scan jsonb value of type %T", value)
	}

	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) < 1 {
		return []byte("null"), nil
	}

	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("cannot unmarshal into a nil JSONB value")
	}

	*j = append((*j)[0:0], data...)

	return nil
}

func (JSONB) GormDataType() string {
	return "jsonb"
}
