package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSplitSQL(t *testing.T) {
	sql := "-- header\nCREATE TABLE IF NOT EXISTS a (id INT);\n\nCREATE TABLE IF NOT EXISTS b (\n  id INT\n);\n"
	got := splitSQL(sql)
	want := []string{"CREATE TABLE IF NOT EXISTS a (id INT)", "CREATE TABLE IF NOT EXISTS b (\n  id INT\n)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSQL() = %q, want %q", got, want)
	}
}

func TestExtractTables_CatalogMigration(t *testing.T) {
	got, err := extractTables(filepath.Join("..", "..", "migrations", "0001_catalog.sql"))
	if err != nil {
		t.Fatalf("extractTables: %v", err)
	}
	want := []string{"tariffs", "supplements", "holidays"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tables = %v, want %v", got, want)
	}

	if _, err := extractTables(filepath.Join(t.TempDir(), "missing.sql")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestPercentile(t *testing.T) {
	var values []time.Duration
	for i := 10; i >= 1; i-- {
		values = append(values, time.Duration(i)*time.Millisecond)
	}
	tests := []struct {
		p    int
		want time.Duration
	}{
		{50, 5 * time.Millisecond},
		{95, 10 * time.Millisecond},
		{100, 10 * time.Millisecond},
		{1, 1 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := percentile(values, tt.p); got != tt.want {
			t.Errorf("percentile(%d) = %s, want %s", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 50) != 0 {
		t.Error("empty input must give 0")
	}
	if values[0] != 10*time.Millisecond {
		t.Error("percentile must not reorder its input")
	}
}

func TestSummarize(t *testing.T) {
	counts := summarize([]Result{{Status: StatusPass}, {Status: StatusPass}, {Status: StatusSkip}})
	if counts[StatusPass] != 2 || counts[StatusSkip] != 1 || counts[StatusFail] != 0 {
		t.Errorf("counts = %v", counts)
	}
}
