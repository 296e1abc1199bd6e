// Package jsondoc implements document encoding and field transforms for backends
// that persist documents as JSON (sqlite, postgres).
package jsondoc

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mmynk/groupcal/internal/storage"
)

// Encode marshals data into its generic JSON object form.
func Encode(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document must encode to a JSON object: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Normalize converts v into the generic form produced by decoding JSON, so that
// values can be compared with reflect.DeepEqual against stored fields.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}

// Apply merges updates into doc in order.
func Apply(doc map[string]any, updates ...storage.Update) error {
	for _, u := range updates {
		if u.Field == "" {
			return fmt.Errorf("update with empty field name")
		}

		switch t := u.Value.(type) {
		case storage.ArrayUnionTransform:
			arr := asArray(doc[u.Field])
			for _, elem := range t.Elems {
				n, err := Normalize(elem)
				if err != nil {
					return err
				}
				if indexOf(arr, n) < 0 {
					arr = append(arr, n)
				}
			}
			doc[u.Field] = arr

		case storage.ArrayRemoveTransform:
			arr := asArray(doc[u.Field])
			for _, elem := range t.Elems {
				n, err := Normalize(elem)
				if err != nil {
					return err
				}
				kept := arr[:0]
				for _, existing := range arr {
					if !reflect.DeepEqual(existing, n) {
						kept = append(kept, existing)
					}
				}
				arr = kept
			}
			doc[u.Field] = arr

		case storage.IncrementTransform:
			cur, _ := doc[u.Field].(float64)
			doc[u.Field] = cur + float64(t.N)

		default:
			n, err := Normalize(u.Value)
			if err != nil {
				return err
			}
			doc[u.Field] = n
		}
	}
	return nil
}

// asArray returns a fresh copy of v as an array; non-array values are replaced.
func asArray(v any) []any {
	existing, ok := v.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, len(existing))
	copy(out, existing)
	return out
}

func indexOf(arr []any, v any) int {
	for i, existing := range arr {
		if reflect.DeepEqual(existing, v) {
			return i
		}
	}
	return -1
}

// Snapshot is a JSON-encoded document read from a backend.
type Snapshot struct {
	id  string
	raw []byte
}

// NewSnapshot wraps the raw JSON of the document with the given ID.
func NewSnapshot(id string, raw []byte) Snapshot {
	return Snapshot{id: id, raw: raw}
}

// ID returns the document ID.
func (s Snapshot) ID() string {
	return s.id
}

// DataTo decodes the document into v.
func (s Snapshot) DataTo(v any) error {
	if err := json.Unmarshal(s.raw, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", s.id, err)
	}
	return nil
}
