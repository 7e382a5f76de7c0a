package energinet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/angas/energinet-go/hours"
)

// envelope mirrors the service response.
type envelope struct {
	Total   int               `json:"total"`
	Records []json.RawMessage `json:"records"`
}

// Record is one row of a dataset response. Columns whose name contains
// "UTC" hold time.Time values, everything else keeps its JSON type.
type Record map[string]any

// Table is the tabular result of a dataset query: uniformly shaped rows
// with named columns, in the column order the service returned.
type Table struct {
	Columns []string
	Rows    []Record
}

func parseTable(body []byte) (*Table, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{Err: err}
	}
	if env.Records == nil {
		return nil, &ParseError{Err: errors.New("missing records field")}
	}

	table := &Table{Rows: make([]Record, 0, len(env.Records))}
	for i, raw := range env.Records {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if table.Columns == nil {
			cols, err := columnOrder(raw)
			if err != nil {
				return nil, &ParseError{Err: err}
			}
			table.Columns = cols
		}
		for _, col := range timeColumns(table.Columns) {
			if rec[col] == nil {
				continue
			}
			str, ok := rec[col].(string)
			if !ok {
				return nil, &ParseError{Err: fmt.Errorf("record %d: column %s is not a timestamp", i, col)}
			}
			t, err := hours.ParseRecord(str)
			if err != nil {
				return nil, &ParseError{Err: fmt.Errorf("record %d: %w", i, err)}
			}
			rec[col] = t
		}
		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// columnOrder keeps the field order of the first record, which the service
// uses consistently across rows. encoding/json maps would lose it.
func columnOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("record is not a JSON object")
	}

	var cols []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("record has a non-string key")
		}
		cols = append(cols, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}

	return cols, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func timeColumns(cols []string) []string {
	var found []string
	for _, col := range cols {
		if strings.Contains(col, "UTC") {
			found = append(found, col)
		}
	}
	return found
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// TimeColumn returns the name of the first UTC time column, if any.
func (t *Table) TimeColumn() (string, bool) {
	cols := timeColumns(t.Columns)
	if len(cols) == 0 {
		return "", false
	}
	return cols[0], true
}

// Select returns a table restricted to the given columns.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, col := range cols {
		if !t.HasColumn(col) {
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown column %q", col)}
		}
	}

	selected := &Table{Columns: slices.Clone(cols), Rows: make([]Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rec := make(Record, len(cols))
		for _, col := range cols {
			rec[col] = row[col]
		}
		selected.Rows = append(selected.Rows, rec)
	}

	return selected, nil
}

func (t *Table) dropColumns(names []string) {
	for _, name := range names {
		if !t.HasColumn(name) {
			continue
		}
		t.Columns = slices.DeleteFunc(t.Columns, func(col string) bool { return col == name })
		for _, row := range t.Rows {
			delete(row, name)
		}
	}
}

// dropLocalTimeColumns removes the Danish local-time twin of every UTC
// column, e.g. HourDK next to HourUTC.
func (t *Table) dropLocalTimeColumns() {
	var locals []string
	for _, col := range timeColumns(t.Columns) {
		locals = append(locals, strings.Replace(col, "UTC", "DK", 1))
	}
	t.dropColumns(locals)
}

// sortByTime orders rows ascending by the first UTC time column. The
// service returns newest first.
func (t *Table) sortByTime() {
	col, ok := t.TimeColumn()
	if !ok {
		return
	}
	slices.SortStableFunc(t.Rows, func(a, b Record) int {
		ta, aok := a.Time(col)
		tb, bok := b.Time(col)
		if !aok || !bok {
			return 0
		}
		return ta.Compare(tb)
	})
}

// truncate keeps only rows whose time column falls within [start, end].
func (t *Table) truncate(start, end time.Time) {
	col, ok := t.TimeColumn()
	if !ok {
		return
	}
	t.Rows = slices.DeleteFunc(t.Rows, func(row Record) bool {
		tm, ok := row.Time(col)
		if !ok {
			return false
		}
		return tm.Before(start) || tm.After(end)
	})
}

func (r Record) Time(col string) (time.Time, bool) {
	t, ok := r[col].(time.Time)
	return t, ok
}

func (r Record) Float(col string) (float64, bool) {
	f, ok := r[col].(float64)
	return f, ok
}

func (r Record) String(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}
