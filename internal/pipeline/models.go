package pipeline

import (
	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/mlowell/networth-tracker/internal/sheets"
)

// State holds the shared state across all pipeline steps for one run.
type State struct {
	RunID    string
	DataPath string

	// Filled by DiscoverFilesStep / ParseFilesStep.
	Files []string
	Repo  *qfx.Repository

	// Filled by CategorizeStep.
	Quarters []qfx.Quarter
	Records  map[qfx.Quarter]income.Record

	// Filled by ReadSheetsStep / LocateColumnsStep.
	Grids       []sheets.Grid
	SectionRows map[string]int // sheet name -> INVESTMENT INCOME header row
	Columns     sheets.ColumnMap

	// Quarters that had data but no matching spreadsheet column. Their
	// writes were skipped; a non-empty slice makes the run exit non-zero.
	Unresolved []qfx.Quarter
}
