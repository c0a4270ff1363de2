package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/mlowell/networth-tracker/internal/logger"
	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/mlowell/networth-tracker/internal/sheets"
)

// Step represents a single step in the update pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// Step 1: DiscoverFilesStep resolves the --data argument into QFX files.
type DiscoverFilesStep struct{}

func (s *DiscoverFilesStep) Execute(ctx context.Context, state *State) error {
	files, err := qfx.Discover(state.DataPath)
	if err != nil {
		return err
	}
	state.Files = files
	log := logger.FromContext(ctx)
	log.Info().Int("files", len(files)).Str("data", state.DataPath).Msg("Discovered QFX files")
	return nil
}

// Step 2: ParseFilesStep parses every file into the transaction repository.
// A file name carrying a quarter token (e.g. "2025-Q2.qfx") restricts that
// file's contribution to its reporting period, so boundary transactions
// from overlapping exports don't double-count.
type ParseFilesStep struct{}

func (s *ParseFilesStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	state.Repo = qfx.NewRepository()

	for _, path := range state.Files {
		txns, err := qfx.ParseIncomeFile(path, log)
		if err != nil {
			return err
		}

		name := filepath.Base(path)
		if q, ok := qfx.QuarterFromFilename(name); ok {
			filtered := txns[:0]
			for _, t := range txns {
				if q.Contains(t.Date) {
					filtered = append(filtered, t)
				}
			}
			if dropped := len(txns) - len(filtered); dropped > 0 {
				log.Debug().Str("file", name).Int("dropped", dropped).
					Msgf("Dropped transactions outside %s", q)
			}
			txns = filtered
		}

		added := state.Repo.Add(txns, name)
		log.Info().Str("file", name).Int("added", added).Msg("Loaded transactions")
	}

	if state.Repo.Duplicates() > 0 {
		log.Info().Int("duplicates", state.Repo.Duplicates()).Msg("Skipped duplicate transactions")
	}
	return nil
}

// Step 3: CategorizeStep sums each quarter's transactions into an income
// record. An unmapped account aborts here, before any spreadsheet write.
type CategorizeStep struct {
	Categorizer *income.Categorizer
}

func (s *CategorizeStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	state.Quarters = state.Repo.Quarters()
	state.Records = make(map[qfx.Quarter]income.Record, len(state.Quarters))

	for _, q := range state.Quarters {
		rec, err := s.Categorizer.Categorize(state.Repo.ForQuarter(q))
		if err != nil {
			return err
		}
		state.Records[q] = rec
		log.Info().Str("quarter", q.String()).Str("income", rec.String()).Msg("Categorized quarter")
	}
	return nil
}

// Step 4: ReadSheetsStep reads the grid of every year sheet and finds each
// sheet's INVESTMENT INCOME section row. Non-year sheets are not touched.
type ReadSheetsStep struct {
	Service sheets.Service
}

func (s *ReadSheetsStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	titles, err := s.Service.SheetTitles(ctx)
	if err != nil {
		return err
	}

	state.SectionRows = make(map[string]int)
	for _, title := range sheets.YearSheets(titles) {
		grid, err := s.Service.ReadSheet(ctx, title)
		if err != nil {
			return err
		}
		state.Grids = append(state.Grids, sheets.Grid{SheetName: title, Rows: grid})

		if row, ok := sheets.FindIncomeSection(grid); ok {
			state.SectionRows[title] = row
		} else {
			log.Warn().Str("sheet", title).Msg("Year sheet has no INVESTMENT INCOME section")
		}
	}

	if len(state.Grids) == 0 {
		return fmt.Errorf("pipeline: spreadsheet has no year sheets")
	}
	return nil
}

// Step 5: LocateColumnsStep builds the quarter -> column map from the
// year sheet grids.
type LocateColumnsStep struct{}

func (s *LocateColumnsStep) Execute(ctx context.Context, state *State) error {
	state.Columns = sheets.LocateQuarterColumns(state.Grids, logger.FromContext(ctx))
	return nil
}

// Step 6: WriteStep writes each quarter's record to its column. A quarter
// without a column is reported and skipped; the remaining quarters still
// get written.
type WriteStep struct {
	Writer *sheets.Writer
}

func (s *WriteStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	for _, q := range state.Quarters {
		col, err := state.Columns.Lookup(q)
		if err != nil {
			log.Error().Str("quarter", q.String()).Msg("No spreadsheet column for quarter, skipping")
			state.Unresolved = append(state.Unresolved, q)
			continue
		}

		sectionRow, ok := state.SectionRows[col.SheetName]
		if !ok {
			log.Error().Str("quarter", q.String()).Str("sheet", col.SheetName).
				Msg("Sheet has no income section, skipping quarter")
			state.Unresolved = append(state.Unresolved, q)
			continue
		}

		if err := s.Writer.WriteQuarter(ctx, col, sectionRow, state.Records[q]); err != nil {
			return err
		}
	}
	return nil
}
