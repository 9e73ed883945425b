package events

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"trackline/internal/apperrors"
)

// Properties is the schemaless payload attached to an event. Values are
// restricted to the JSON value set: string, number, bool, null, nested
// object, nested list. Payloads decoded from JSON satisfy this by
// construction; Validate guards programmatic construction.
type Properties map[string]any

// Value serializes the payload to JSON for storage.
func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal properties: %w", err)
	}
	return string(data), nil
}

// Scan deserializes the payload from its stored JSON form.
func (p *Properties) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported properties column type %T", src)
	}

	if len(data) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(data, p)
}

// Validate checks that every value in the payload belongs to the allowed
// JSON value set, recursing into nested objects and lists.
func (p Properties) Validate() error {
	for key, value := range p {
		if err := validateValue(value); err != nil {
			return fmt.Errorf("%w: property %q: %v", apperrors.ErrInvalidArgument, key, err)
		}
	}
	return nil
}

func validateValue(value any) error {
	switch v := value.(type) {
	case nil, string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return nil
	case map[string]any:
		for key, nested := range v {
			if err := validateValue(nested); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
		}
		return nil
	case []any:
		for i, nested := range v {
			if err := validateValue(nested); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	case Properties:
		return v.Validate()
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
}
