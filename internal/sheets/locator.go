package sheets

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/rs/zerolog"
)

// maxHeaderScanRows bounds the top-of-sheet scan for the quarter header row.
const maxHeaderScanRows = 5

// QuarterColumn locates the spreadsheet column that holds one quarter's
// income entries. Discovered fresh every run, never persisted.
type QuarterColumn struct {
	SheetName   string
	ColumnIndex int // 0-based
	HeaderRow   int // 0-based row the quarter description was found in
	Quarter     qfx.Quarter
}

func (c QuarterColumn) String() string {
	return fmt.Sprintf("%s -> %s!%s", c.Quarter, c.SheetName, ColumnLetter(c.ColumnIndex))
}

// UnresolvedQuarterError is returned when no header cell matched a quarter
// that input data exists for. The quarter's write is skipped; other
// quarters continue.
type UnresolvedQuarterError struct {
	Quarter qfx.Quarter
}

func (e *UnresolvedQuarterError) Error() string {
	return fmt.Sprintf("sheets: no column found for %s", e.Quarter)
}

// ColumnMap indexes discovered quarter columns by quarter.
type ColumnMap map[qfx.Quarter]QuarterColumn

// Lookup resolves a quarter to its column.
func (m ColumnMap) Lookup(q qfx.Quarter) (QuarterColumn, error) {
	col, ok := m[q]
	if !ok {
		return QuarterColumn{}, &UnresolvedQuarterError{Quarter: q}
	}
	return col, nil
}

// Grid is the cell text of one sheet, as read from the collaborator.
type Grid struct {
	SheetName string
	Rows      [][]string
}

// Header patterns, most specific first:
//
//	"Oct, Nov, Dec (2024 Q4)"  -> parenthesized year + quarter
//	"Q1 2025"
//	"2025-Q1"
var (
	parenQuarterRe  = regexp.MustCompile(`\((\d{4})\s+Q(\d)\)`)
	prefixQuarterRe = regexp.MustCompile(`Q(\d)\s+(\d{4})`)
	dashedQuarterRe = regexp.MustCompile(`(\d{4})-Q(\d)`)
)

// ParseQuarterHeader extracts the quarter from a header cell. The second
// return value is false when the text carries no valid quarter token.
func ParseQuarterHeader(text string) (qfx.Quarter, bool) {
	if text == "" {
		return qfx.Quarter{}, false
	}

	var yearStr, qStr string
	if m := parenQuarterRe.FindStringSubmatch(text); m != nil {
		yearStr, qStr = m[1], m[2]
	} else if m := prefixQuarterRe.FindStringSubmatch(text); m != nil {
		yearStr, qStr = m[2], m[1]
	} else if m := dashedQuarterRe.FindStringSubmatch(text); m != nil {
		yearStr, qStr = m[1], m[2]
	} else {
		return qfx.Quarter{}, false
	}

	year, _ := strconv.Atoi(yearStr)
	qn, _ := strconv.Atoi(qStr)
	q := qfx.Quarter{Year: year, Q: qn}
	if !q.Valid() {
		return qfx.Quarter{}, false
	}
	return q, true
}

// LocateQuarterColumns scans each sheet's top rows for the quarter header
// row and registers every matching cell. The first row with any match is
// the sheet's header row. A sheet without one contributes nothing. When the
// same quarter shows up in two sheets the first discovery wins and the
// duplicate is logged (a year sheet may legitimately carry the previous
// year's trailing Q4).
func LocateQuarterColumns(grids []Grid, log zerolog.Logger) ColumnMap {
	columns := make(ColumnMap)

	for _, grid := range grids {
		headerRow := -1
		for rowIdx := 0; rowIdx < len(grid.Rows) && rowIdx < maxHeaderScanRows; rowIdx++ {
			matched := false
			for colIdx, cell := range grid.Rows[rowIdx] {
				q, ok := ParseQuarterHeader(cell)
				if !ok {
					continue
				}
				matched = true

				col := QuarterColumn{
					SheetName:   grid.SheetName,
					ColumnIndex: colIdx,
					HeaderRow:   rowIdx,
					Quarter:     q,
				}
				if existing, dup := columns[q]; dup {
					log.Warn().
						Str("quarter", q.String()).
						Str("existing", existing.String()).
						Str("duplicate", col.String()).
						Msg("Duplicate quarter column, keeping first")
					continue
				}
				columns[q] = col
				log.Debug().
					Str("quarter", q.String()).
					Str("sheet", grid.SheetName).
					Str("column", ColumnLetter(colIdx)).
					Msg("Found quarter column")
			}
			if matched {
				headerRow = rowIdx
				break
			}
		}
		if headerRow == -1 {
			log.Debug().Str("sheet", grid.SheetName).Msg("No quarter header row")
		}
	}

	return columns
}

// ColumnLetter converts a 0-based column index to A1 notation (A, B, ... Z,
// AA, AB, ...).
func ColumnLetter(index int) string {
	letter := ""
	for index >= 0 {
		letter = string(rune('A'+index%26)) + letter
		index = index/26 - 1
	}
	return letter
}
