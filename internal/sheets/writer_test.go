package sheets

import (
	"context"
	"testing"

	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/mlowell/networth-tracker/internal/logger"
	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/shopspring/decimal"
)

// fakeService records calls instead of hitting the Sheets API.
type fakeService struct {
	titles  []string
	grids   map[string][][]string
	updates [][]CellUpdate
}

func (f *fakeService) SheetTitles(ctx context.Context) ([]string, error) {
	return f.titles, nil
}

func (f *fakeService) ReadSheet(ctx context.Context, sheetName string) ([][]string, error) {
	return f.grids[sheetName], nil
}

func (f *fakeService) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	f.updates = append(f.updates, updates)
	return nil
}

func testRecord() income.Record {
	return income.Record{
		TaxFree:     decimal.RequireFromString("100.00"),
		TaxDeferred: decimal.RequireFromString("200.50"),
		TaxedNow:    decimal.RequireFromString("50.25"),
	}
}

func TestFindIncomeSection(t *testing.T) {
	rows := [][]string{
		{"Net Worth"},
		{"ASSETS"},
		{"", "Investment Income"}, // case-insensitive match
		{"Tax-Free"},
	}

	row, ok := FindIncomeSection(rows)
	if !ok {
		t.Fatal("FindIncomeSection found nothing")
	}
	if row != 2 {
		t.Errorf("section row = %d, want 2", row)
	}

	if _, ok := FindIncomeSection([][]string{{"nothing here"}}); ok {
		t.Error("FindIncomeSection matched a grid without the section")
	}
}

func TestWriteQuarter(t *testing.T) {
	svc := &fakeService{}
	w := NewWriter(svc, false, logger.New(false))

	col := QuarterColumn{
		SheetName:   "2025",
		ColumnIndex: 6, // column G
		HeaderRow:   2,
		Quarter:     qfx.Quarter{Year: 2025, Q: 2},
	}

	// INVESTMENT INCOME header at 0-based row 62 (sheet row 63).
	if err := w.WriteQuarter(context.Background(), col, 62, testRecord()); err != nil {
		t.Fatalf("WriteQuarter failed: %v", err)
	}

	if len(svc.updates) != 1 {
		t.Fatalf("got %d batch calls, want 1", len(svc.updates))
	}
	batch := svc.updates[0]
	if len(batch) != 3 {
		t.Fatalf("batch has %d updates, want 3", len(batch))
	}

	wantRanges := []string{"2025!G64", "2025!G65", "2025!G66"}
	wantValues := []string{"$100.00", "$200.50", "$50.25"}
	for i, u := range batch {
		if u.Range != wantRanges[i] {
			t.Errorf("update %d range = %q, want %q", i, u.Range, wantRanges[i])
		}
		if got := u.Values[0][0]; got != wantValues[i] {
			t.Errorf("update %d value = %v, want %q", i, got, wantValues[i])
		}
	}
}

func TestWriteQuarter_NeverTouchesTotalsRow(t *testing.T) {
	svc := &fakeService{}
	w := NewWriter(svc, false, logger.New(false))

	col := QuarterColumn{SheetName: "2025", ColumnIndex: 0, Quarter: qfx.Quarter{Year: 2025, Q: 1}}
	if err := w.WriteQuarter(context.Background(), col, 10, testRecord()); err != nil {
		t.Fatal(err)
	}

	// Rows 12-14 are written; the totals row (16, SUM formula) must not be.
	for _, u := range svc.updates[0] {
		if u.Range == "2025!A16" || u.Range == "2025!A15" {
			t.Errorf("write touched reserved row below data cells: %s", u.Range)
		}
	}
}

func TestWriteQuarter_DryRun(t *testing.T) {
	svc := &fakeService{}
	w := NewWriter(svc, true, logger.New(false))

	col := QuarterColumn{SheetName: "2025", ColumnIndex: 3, Quarter: qfx.Quarter{Year: 2025, Q: 1}}
	if err := w.WriteQuarter(context.Background(), col, 5, testRecord()); err != nil {
		t.Fatalf("dry-run WriteQuarter failed: %v", err)
	}

	if len(svc.updates) != 0 {
		t.Errorf("dry-run performed %d batch calls, want 0", len(svc.updates))
	}
}
