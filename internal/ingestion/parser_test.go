package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestParseNormalizesRowsInOrder(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "email", "phone", "company"},
		{"Ana", "ana@x.com", "0811", "Acme"},
		{"Budi", "budi@x.com", "0822", "Beta"},
	})

	rows, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if *rows[0].Name != "Ana" || *rows[1].Name != "Budi" {
		t.Fatalf("expected file order preserved, got %v then %v", rows[0].Name, rows[1].Name)
	}
	if *rows[1].Company != "Beta" {
		t.Fatalf("expected company Beta, got %q", *rows[1].Company)
	}
}

func TestParseMissingCellsAreAbsent(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "email"},
		{"Ana"}, // email cell missing entirely
	})

	rows, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Email != nil {
		t.Fatalf("expected absent email, got %q", *rows[0].Email)
	}
}

func TestParseKeepsInteriorEmptyRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "email"},
		{"Ana", ""},
		{"", ""},
		{"", "b@x.com"},
	})

	rows, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows including the empty one, got %d", len(rows))
	}
	if rows[1].HasData() {
		t.Fatalf("expected middle row to carry no data: %+v", rows[1])
	}
	if rows[2].Email == nil || *rows[2].Email != "b@x.com" {
		t.Fatalf("expected third row email, got %v", rows[2].Email)
	}
}

func TestParseHeaderAliasesApply(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Full Name", "telefon"},
		{"Budi", "08123"},
	})

	rows, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Name == nil || *rows[0].Name != "Budi" {
		t.Fatalf("expected name Budi via Full Name alias, got %v", rows[0].Name)
	}
	if rows[0].Phone == nil || *rows[0].Phone != "08123" {
		t.Fatalf("expected phone via telefon alias, got %v", rows[0].Phone)
	}
}

func TestParseUnreadablePath(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestParseCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	if err := os.WriteFile(path, []byte("not a spreadsheet"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	rows, err := NewParser().Parse(path)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no partial result, got %d rows", len(rows))
	}
}
