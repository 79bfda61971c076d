package workflows

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// DocTypes is the list of secondary document types attached to a workflow.
//
// Rows written by older clients hold a comma-joined string instead of a text
// array. Scan and UnmarshalJSON accept both shapes and normalize the legacy one
// to its trimmed, non-empty parts.
type DocTypes []string

// SplitDocTypes normalizes a comma-joined document type string.
func SplitDocTypes(s string) DocTypes {
	parts := strings.Split(s, ",")
	out := make(DocTypes, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Scan implements sql.Scanner for text[] or legacy text columns.
func (d *DocTypes) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return fmt.Errorf("scan doc types: unsupported source type %T", src)
	}

	if !strings.HasPrefix(text, "{") {
		*d = nilIfEmpty(SplitDocTypes(text))
		return nil
	}

	var elems []pgtype.Text
	if err := pgtype.NewMap().SQLScanner(&elems).Scan(text); err != nil {
		return fmt.Errorf("scan doc types: %w", err)
	}

	values := make(DocTypes, 0, len(elems))
	for _, elem := range elems {
		if elem.Valid && elem.String != "" {
			values = append(values, elem.String)
		}
	}
	*d = nilIfEmpty(values)
	return nil
}

// Value implements driver.Valuer, passing the list through as a text array.
func (d DocTypes) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return []string(d), nil
}

// UnmarshalJSON accepts a string array, a comma-joined string, or null.
func (d *DocTypes) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*d = nilIfEmpty(SplitDocTypes(text))
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("other_doc must be a list of strings: %w", err)
	}
	*d = values
	return nil
}

// WithPrimary returns the primary document type followed by d.
func (d DocTypes) WithPrimary(primary string) []string {
	out := make([]string, 0, len(d)+1)
	out = append(out, primary)
	return append(out, d...)
}

func nilIfEmpty(d DocTypes) DocTypes {
	if len(d) == 0 {
		return nil
	}
	return d
}
