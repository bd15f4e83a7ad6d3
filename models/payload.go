package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Payload is the opaque structured data carried by an item. It is stored as
// jsonb and travels as a JSON object on the wire.
type Payload map[string]any

// Scan implements [sql.Scanner].
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = Payload{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal payload value of type %T", value)
	}

	result := Payload{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	*p = result
	return nil
}

// Value implements [driver.Valuer]. A nil payload is stored as an empty object.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// Clone returns a shallow copy of p. A nil payload yields an empty one.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
