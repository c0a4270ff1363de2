package sheets

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/rs/zerolog"
)

// Row offsets below the INVESTMENT INCOME section header. The totals row
// two below Taxed-Now holds a SUM formula and is never written.
const (
	taxFreeOffset     = 1
	taxDeferredOffset = 2
	taxedNowOffset    = 3
)

var incomeSectionRe = regexp.MustCompile(`(?i)INVESTMENT\s+INCOME`)

// FindIncomeSection returns the 0-based row index of the INVESTMENT INCOME
// section header in a sheet grid.
func FindIncomeSection(rows [][]string) (int, bool) {
	for rowIdx, row := range rows {
		for _, cell := range row {
			if incomeSectionRe.MatchString(cell) {
				return rowIdx, true
			}
		}
	}
	return 0, false
}

// Writer performs the quarterly income write. In dry-run mode it logs the
// would-be updates instead of calling the collaborator.
type Writer struct {
	svc    Service
	dryRun bool
	log    zerolog.Logger
}

// NewWriter creates a writer over the given spreadsheet service.
func NewWriter(svc Service, dryRun bool, log zerolog.Logger) *Writer {
	return &Writer{svc: svc, dryRun: dryRun, log: log}
}

// WriteQuarter writes the three category cells for one quarter: rows
// sectionRow+1 through sectionRow+3 in the quarter's column. Values are
// sent as "$123.45" strings with USER_ENTERED so the sheet keeps its
// currency formatting, and the totals row below stays untouched so its SUM
// formula survives. Re-running with the same data writes the same cells.
func (w *Writer) WriteQuarter(ctx context.Context, col QuarterColumn, sectionRow int, rec income.Record) error {
	letter := ColumnLetter(col.ColumnIndex)

	// +1 converts the 0-based grid row to the 1-based A1 row.
	updates := []CellUpdate{
		{
			Range:  fmt.Sprintf("%s!%s%d", col.SheetName, letter, sectionRow+taxFreeOffset+1),
			Values: [][]interface{}{{"$" + rec.TaxFree.StringFixed(2)}},
		},
		{
			Range:  fmt.Sprintf("%s!%s%d", col.SheetName, letter, sectionRow+taxDeferredOffset+1),
			Values: [][]interface{}{{"$" + rec.TaxDeferred.StringFixed(2)}},
		},
		{
			Range:  fmt.Sprintf("%s!%s%d", col.SheetName, letter, sectionRow+taxedNowOffset+1),
			Values: [][]interface{}{{"$" + rec.TaxedNow.StringFixed(2)}},
		},
	}

	if w.dryRun {
		for _, u := range updates {
			w.log.Info().
				Str("range", u.Range).
				Interface("values", u.Values).
				Msg("[dry-run] Would write")
		}
		return nil
	}

	if err := w.svc.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("writing %s: %w", col.Quarter, err)
	}

	w.log.Info().
		Str("quarter", col.Quarter.String()).
		Str("sheet", col.SheetName).
		Str("column", letter).
		Str("income", rec.String()).
		Msg("Wrote quarterly income")
	return nil
}
