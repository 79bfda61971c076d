package workflows

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
)

const (
	keyID           = "id"
	keyNode         = "node"
	keyPrerequisite = "prerequisite"
	keyPrompt       = "prompt"
	keyNote         = "note"
)

// Step is one stage of a workflow definition.
//
// Text fields hold the values exactly as submitted; trimming happens in Compose.
// Keys the service does not interpret (editor layout, labels) round-trip through
// JSON unchanged, as does a numeric id.
type Step struct {
	ID           string
	Node         string
	Prerequisite string
	Prompt       string
	Note         string

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes a step object. String, number, and boolean values are
// accepted for the known keys; null is treated as empty.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("step must be an object: %w", err)
	}

	step := Step{raw: raw}
	fields := map[string]*string{
		keyID:           &step.ID,
		keyNode:         &step.Node,
		keyPrerequisite: &step.Prerequisite,
		keyPrompt:       &step.Prompt,
		keyNote:         &step.Note,
	}

	for key, dst := range fields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		text, err := scalarText(v)
		if err != nil {
			return fmt.Errorf("step %s: %w", key, err)
		}
		*dst = text
	}

	*s = step
	return nil
}

// MarshalJSON encodes the step, keeping any keys it was decoded with.
func (s Step) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.raw)+5)
	maps.Copy(out, s.raw)

	fields := []struct {
		key   string
		value string
	}{
		{keyID, s.ID},
		{keyNode, s.Node},
		{keyPrerequisite, s.Prerequisite},
		{keyPrompt, s.Prompt},
		{keyNote, s.Note},
	}

	for _, f := range fields {
		if prev, ok := s.raw[f.key]; ok {
			if text, err := scalarText(prev); err == nil && text == f.value {
				continue
			}
		} else if f.value == "" {
			continue
		}

		encoded, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		out[f.key] = encoded
	}

	return json.Marshal(out)
}

// scalarText renders a JSON scalar as text. Strings are unquoted, null is empty,
// numbers and booleans keep their literal form.
func scalarText(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", nil
	}

	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar value, got %s", v)
	default:
		return string(v), nil
	}
}

// Steps is the ordered step list stored in the workflow jsonb column.
type Steps []Step

// Scan implements sql.Scanner for jsonb step columns.
func (s *Steps) Scan(src any) error {
	var steps Steps
	if err := scanJSONB(src, &steps); err != nil {
		return fmt.Errorf("scan steps: %w", err)
	}
	*s = steps
	return nil
}

// Value implements driver.Valuer. An empty list is stored as [] rather than null.
func (s Steps) Value() (driver.Value, error) {
	if s == nil {
		s = Steps{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// scanJSONB decodes a jsonb column into dst. Values stored as a JSON string
// holding encoded JSON are unwrapped once. NULL leaves dst untouched.
func scanJSONB(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}

	return json.Unmarshal(data, dst)
}
