package energinet

import "encoding/json"

// Decode maps table rows onto a slice of T using the JSON field tags of T.
// Time columns round-trip as RFC 3339 into time.Time fields.
func Decode[T any](t *Table) ([]T, error) {
	data, err := json.Marshal(t.Rows)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	out := make([]T, 0, len(t.Rows))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Err: err}
	}

	return out, nil
}
