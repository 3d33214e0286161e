package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// floatMap stores a child-completion map as a JSON object column. A nil map
// stays NULL so that "no rollup data" and "empty rollup" remain distinct
// after a round trip.
type floatMap map[string]float32

func (m floatMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal float map: %w", err)
	}
	return string(b), nil
}

func (m *floatMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("cannot scan %T into float map", src)
}

// idList stores an ordered list of element ids as a JSON array column.
// Order is preserved exactly; it encodes completion order.
type idList []string

func (l idList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal id list: %w", err)
	}
	return string(b), nil
}

func (l *idList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into id list", src)
}

func toFloatMap(m map[uuid.UUID]float32) floatMap {
	if m == nil {
		return nil
	}
	out := make(floatMap, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}

func fromFloatMap(m floatMap) (map[uuid.UUID]float32, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[uuid.UUID]float32, len(m))
	for k, v := range m {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("parse child element id %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}

func toIDList(ids []uuid.UUID) idList {
	if ids == nil {
		return nil
	}
	out := make(idList, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func fromIDList(l idList) ([]uuid.UUID, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]uuid.UUID, len(l))
	for i, s := range l {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse walkable id %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}
