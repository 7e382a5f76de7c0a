package energinet

import (
	"errors"
	"testing"
	"time"
)

func TestParseTableKeepsColumnOrder(t *testing.T) {
	body := `{"total": 1, "records": [
		{"Zulu": 1, "Alpha": 2, "Mike": 3}
	]}`

	table, err := parseTable([]byte(body))
	if err != nil {
		t.Fatalf("parseTable() failed: %v", err)
	}

	expected := []string{"Zulu", "Alpha", "Mike"}
	for i, col := range expected {
		if table.Columns[i] != col {
			t.Errorf("column %d: expected %s, got %s", i, col, table.Columns[i])
		}
	}
}

func TestParseTableTimeColumns(t *testing.T) {
	body := `{"total": 1, "records": [
		{"Minutes5UTC": "2023-01-05T10:05:00", "Minutes5DK": "2023-01-05T11:05:00", "CO2Emission": 42.5}
	]}`

	table, err := parseTable([]byte(body))
	if err != nil {
		t.Fatalf("parseTable() failed: %v", err)
	}

	tm, ok := table.Rows[0].Time("Minutes5UTC")
	if !ok {
		t.Fatal("Minutes5UTC was not parsed into a time value")
	}
	if expected := time.Date(2023, 1, 5, 10, 5, 0, 0, time.UTC); !tm.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, tm)
	}

	// Local-time twin stays a string until the client drops it.
	if _, ok := table.Rows[0].String("Minutes5DK"); !ok {
		t.Error("Minutes5DK should remain a string column")
	}
}

func TestParseTableNullTimestamp(t *testing.T) {
	body := `{"total": 1, "records": [
		{"HourUTC": null, "SpotPriceDKK": 1.0}
	]}`

	table, err := parseTable([]byte(body))
	if err != nil {
		t.Fatalf("parseTable() failed on null timestamp: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 row, got %d", table.Len())
	}
}

func TestTableSelect(t *testing.T) {
	table := &Table{
		Columns: []string{"HourUTC", "SpotPriceDKK", "SpotPriceEUR"},
		Rows: []Record{
			{"HourUTC": time.Now(), "SpotPriceDKK": 800.0, "SpotPriceEUR": 107.0},
		},
	}

	selected, err := table.Select("SpotPriceEUR")
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	if len(selected.Columns) != 1 || selected.Columns[0] != "SpotPriceEUR" {
		t.Errorf("unexpected columns: %v", selected.Columns)
	}
	if _, ok := selected.Rows[0]["SpotPriceDKK"]; ok {
		t.Error("unselected column leaked into rows")
	}

	_, err = table.Select("Bogus")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestTableTruncateInclusiveBounds(t *testing.T) {
	hour := func(h int) time.Time { return time.Date(2023, 1, 5, h, 0, 0, 0, time.UTC) }
	table := &Table{
		Columns: []string{"HourUTC"},
		Rows: []Record{
			{"HourUTC": hour(9)},
			{"HourUTC": hour(10)},
			{"HourUTC": hour(12)},
			{"HourUTC": hour(13)},
		},
	}

	table.truncate(hour(10), hour(12))

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	first, _ := table.Rows[0].Time("HourUTC")
	last, _ := table.Rows[1].Time("HourUTC")
	if !first.Equal(hour(10)) || !last.Equal(hour(12)) {
		t.Errorf("bounds should be inclusive, got %v and %v", first, last)
	}
}

func TestTableSortByTime(t *testing.T) {
	hour := func(h int) time.Time { return time.Date(2023, 1, 5, h, 0, 0, 0, time.UTC) }
	table := &Table{
		Columns: []string{"HourUTC"},
		Rows: []Record{
			{"HourUTC": hour(12)},
			{"HourUTC": hour(9)},
			{"HourUTC": hour(10)},
		},
	}

	table.sortByTime()

	expected := []int{9, 10, 12}
	for i, h := range expected {
		tm, _ := table.Rows[i].Time("HourUTC")
		if !tm.Equal(hour(h)) {
			t.Errorf("row %d: expected hour %d, got %v", i, h, tm)
		}
	}
}

func TestDecode(t *testing.T) {
	table := &Table{
		Columns: []string{"HourUTC", "SpotPriceDKK", "SpotPriceEUR"},
		Rows: []Record{
			{"HourUTC": time.Date(2023, 1, 5, 11, 0, 0, 0, time.UTC), "SpotPriceDKK": 790.25, "SpotPriceEUR": 106.2},
		},
	}

	prices, err := Decode[SpotPrice](table)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prices))
	}
	if prices[0].SpotPriceDKK != 790.25 {
		t.Errorf("expected price 790.25, got %f", prices[0].SpotPriceDKK)
	}
	if expected := time.Date(2023, 1, 5, 11, 0, 0, 0, time.UTC); !prices[0].HourUTC.Equal(expected) {
		t.Errorf("expected hour %v, got %v", expected, prices[0].HourUTC)
	}
}
