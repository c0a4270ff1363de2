package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mlowell/networth-tracker/internal/config"
	"github.com/mlowell/networth-tracker/internal/income"
	"github.com/mlowell/networth-tracker/internal/logger"
	"github.com/mlowell/networth-tracker/internal/pipeline"
	"github.com/mlowell/networth-tracker/internal/sheets"
)

func main() {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "update":
		runUpdate()
	case "report":
		runReport()
	case "columns":
		runColumns()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Net Worth Tracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  update    Parse QFX income files and write quarterly totals to the spreadsheet")
	fmt.Println("  report    Parse QFX income files and print quarterly totals without writing")
	fmt.Println("  columns   Show which spreadsheet column each quarter maps to")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runUpdate() {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	dataPath := fs.String("data", "", "QFX file or directory of QFX files")
	configPath := fs.String("config", "networth.yaml", "Path to the YAML config file")
	dryRun := fs.Bool("dry-run", false, "Log intended writes without touching the spreadsheet")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(os.Args[2:])

	log := logger.New(*verbose)
	if *dataPath == "" {
		log.Fatal().Msg("Error: --data is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	categorizer, err := income.NewCategorizer(cfg.Accounts, cfg.Funds)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid account mapping")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx, log)

	svc, err := sheets.NewGoogleService(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	writer := sheets.NewWriter(svc, *dryRun, log)
	p := pipeline.NewUpdatePipeline(categorizer, svc, writer)

	state := &pipeline.State{RunID: runID, DataPath: *dataPath}

	log.Info().Str("data", *dataPath).Bool("dry_run", *dryRun).Msg("Starting quarterly income update")

	if err := p.Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Update failed")
	}

	printRecords(state)

	if len(state.Unresolved) > 0 {
		for _, q := range state.Unresolved {
			fmt.Fprintf(os.Stderr, "No spreadsheet column found for %s; its totals were not written\n", q)
		}
		os.Exit(1)
	}

	if *dryRun {
		fmt.Println("Dry run completed; no cells were written.")
	} else {
		fmt.Println("Update completed successfully.")
	}
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dataPath := fs.String("data", "", "QFX file or directory of QFX files")
	configPath := fs.String("config", "networth.yaml", "Path to the YAML config file")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(os.Args[2:])

	log := logger.New(*verbose)
	if *dataPath == "" {
		log.Fatal().Msg("Error: --data is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	categorizer, err := income.NewCategorizer(cfg.Accounts, cfg.Funds)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid account mapping")
	}

	ctx := logger.WithContext(context.Background(), log)

	state := &pipeline.State{RunID: uuid.NewString(), DataPath: *dataPath}
	if err := pipeline.NewReportPipeline(categorizer).Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Report failed")
	}

	printRecords(state)
}

func runColumns() {
	fs := flag.NewFlagSet("columns", flag.ExitOnError)
	configPath := fs.String("config", "networth.yaml", "Path to the YAML config file")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(os.Args[2:])

	log := logger.New(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, err := sheets.NewGoogleService(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	titles, err := svc.SheetTitles(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list sheets")
	}

	var grids []sheets.Grid
	for _, title := range sheets.YearSheets(titles) {
		rows, err := svc.ReadSheet(ctx, title)
		if err != nil {
			log.Fatal().Err(err).Str("sheet", title).Msg("Failed to read sheet")
		}
		grids = append(grids, sheets.Grid{SheetName: title, Rows: rows})
	}

	columns := sheets.LocateQuarterColumns(grids, log)
	if len(columns) == 0 {
		fmt.Println("No quarter columns found.")
		return
	}

	quarters := make([]string, 0, len(columns))
	byKey := make(map[string]sheets.QuarterColumn, len(columns))
	for q, col := range columns {
		quarters = append(quarters, q.String())
		byKey[q.String()] = col
	}
	sort.Strings(quarters)

	fmt.Printf("\n=== Quarter Columns (%d) ===\n", len(columns))
	for _, q := range quarters {
		col := byKey[q]
		fmt.Printf("%s  ->  %s!%s (header row %d)\n",
			q, col.SheetName, sheets.ColumnLetter(col.ColumnIndex), col.HeaderRow+1)
	}
	fmt.Println()
}

func printRecords(state *pipeline.State) {
	if len(state.Quarters) == 0 {
		fmt.Println("No income transactions found.")
		return
	}

	fmt.Printf("\n=== Quarterly Income (%d quarters) ===\n", len(state.Quarters))
	for _, q := range state.Quarters {
		rec := state.Records[q]
		fmt.Printf("\n%s\n", q)
		fmt.Printf("  Tax-Free:     $%s\n", rec.TaxFree.StringFixed(2))
		fmt.Printf("  Tax-Deferred: $%s\n", rec.TaxDeferred.StringFixed(2))
		fmt.Printf("  Taxed-Now:    $%s\n", rec.TaxedNow.StringFixed(2))
		fmt.Printf("  Total:        $%s\n", rec.Total().StringFixed(2))
	}
	fmt.Println()
}
