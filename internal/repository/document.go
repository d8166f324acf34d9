package repository

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// The memory, redis and postgres collections keep documents as JSON with a
// UUID string under IDField.

func parseUUID(raw string) (any, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id.String(), nil
}

// filterFields flattens a filter like toFields. Values that encode to null,
// typed nil pointers included, are rejected.
func filterFields(f Filter) (map[string]any, error) {
	fields, err := toFields(f)
	if err != nil {
		return nil, err
	}
	if err := Filter(fields).validate(); err != nil {
		return nil, err
	}
	return fields, nil
}

// toFields flattens a value into its JSON top-level fields.
func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fromFields[T any](fields map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func decodeDocument[T any](raw []byte) (T, map[string]any, error) {
	var out T
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, nil, err
	}
	err := json.Unmarshal(raw, &out)
	return out, fields, err
}

// matches reports whether every filter field equals the document field.
// The filter must already be normalized with toFields.
func matches(fields map[string]any, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := fields[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// applySet merges set into fields and reports whether anything changed.
func applySet(fields map[string]any, set map[string]any) bool {
	changed := false
	for key, val := range set {
		if key == IDField {
			continue
		}
		if cur, ok := fields[key]; !ok || !reflect.DeepEqual(cur, val) {
			fields[key] = val
			changed = true
		}
	}
	return changed
}

// lookupID returns the identifier a filter addresses, if any.
func lookupID(filter map[string]any) (string, bool) {
	raw, ok := filter[IDField]
	if !ok {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok
}

// newDocumentID returns a time-ordered UUID so lexical order follows
// insertion order.
func newDocumentID() string {
	return uuid.Must(uuid.NewV7()).String()
}
