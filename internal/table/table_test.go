package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAppendAndRecords(t *testing.T) {
	tbl := New("source", "title", "url")

	if err := tbl.Append("Google News", "Headline A", "https://example.com/a"); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	// short row gets padded
	if err := tbl.Append("Google News"); err != nil {
		t.Fatalf("Append short row returned error: %v", err)
	}
	// long row rejected
	if err := tbl.Append("a", "b", "c", "d"); err == nil {
		t.Error("Append with too many values should fail")
	}

	records := tbl.Records()
	want := [][]string{
		{"source", "title", "url"},
		{"Google News", "Headline A", "https://example.com/a"},
		{"Google News", "", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records() = %v, want %v", records, want)
	}
}

func TestSheetValues(t *testing.T) {
	tbl := New("a", "b")
	if err := tbl.Append("1", "2"); err != nil {
		t.Fatal(err)
	}

	values := tbl.SheetValues()
	if len(values) != 2 {
		t.Fatalf("SheetValues() has %d rows, want 2", len(values))
	}
	if values[0][0] != "a" || values[1][1] != "2" {
		t.Errorf("SheetValues() = %v", values)
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := New("title", "question")
	if err := tbl.Append("Headline", "Tell me about this headline: Headline"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := tbl.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1][0] != "Headline" {
		t.Errorf("read back %v", records)
	}
}
