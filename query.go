package energinet

import (
	"encoding/json"
	"net/url"
	"sort"
	"time"

	"github.com/angas/energinet-go/hours"
)

// Filters narrows a dataset query on one or more columns,
// e.g. Filters{"PriceArea": {"DK1", "DK2"}}.
type Filters map[string][]string

// Query describes one dataset request. It is built per call, turned into
// query-string parameters and discarded once the response is parsed.
type Query struct {
	Dataset string
	Start   time.Time
	End     time.Time
	Filters Filters
	// Columns restricts the result to a subset, empty means all.
	Columns []string
}

func (q Query) validate() error {
	if q.Dataset == "" {
		return &ValidationError{Reason: "dataset name is empty"}
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return &ValidationError{Reason: "start and end must both be set"}
	}
	if q.Start.After(q.End) {
		return &ValidationError{Reason: "start is after end"}
	}
	return nil
}

// params encodes the query the way the service expects it: times in Danish
// local time and the filter as a JSON object of string arrays.
func (q Query) params() url.Values {
	values := url.Values{}
	values.Set("offset", "0")
	values.Set("start", hours.FormatQuery(q.Start))
	values.Set("end", hours.FormatQuery(q.End))

	filters := Filters{}
	for key, vals := range q.Filters {
		if len(vals) > 0 {
			filters[key] = vals
		}
	}
	if len(filters) > 0 {
		data, _ := json.Marshal(filters)
		values.Set("filter", string(data))
	}

	return values
}

// filterKeys returns the filtered column names in a stable order. Their
// values are constant in the response, so the client drops them.
func (q Query) filterKeys() []string {
	keys := make([]string, 0, len(q.Filters))
	for key, vals := range q.Filters {
		if len(vals) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
