// Package sheets talks to the net-worth Google Sheets document: sheet
// discovery and classification, quarter-column location, and the quarterly
// income write path.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// CellUpdate is one rectangular write, range in A1 notation including the
// sheet name, e.g. "2025!G65".
type CellUpdate struct {
	Range  string
	Values [][]interface{}
}

// Service is the spreadsheet collaborator. The Google Sheets implementation
// lives below; tests substitute a fake.
type Service interface {
	// SheetTitles lists the titles of all sheet tabs in the document.
	SheetTitles(ctx context.Context) ([]string, error)
	// ReadSheet reads the populated cell grid of one sheet as text.
	ReadSheet(ctx context.Context, sheetName string) ([][]string, error)
	// BatchUpdate applies all cell updates in a single batch call.
	BatchUpdate(ctx context.Context, updates []CellUpdate) error
}

// GoogleService implements Service against the Sheets v4 API.
type GoogleService struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleService builds a Sheets client for one spreadsheet. With a
// service-account credentials file it uses a JWT token source; otherwise it
// falls back to application default credentials.
func NewGoogleService(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleService, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}

	if credentialsFile != "" {
		jsonKey, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("sheets: reading credentials file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("sheets: parsing service account key: %w", err)
		}
		opts = append(opts, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}

	return &GoogleService{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleService) SheetTitles(ctx context.Context) ([]string, error) {
	doc, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: fetching spreadsheet metadata: %w", err)
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (g *GoogleService) ReadSheet(ctx context.Context, sheetName string) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: reading %s: %w", readRange, err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		grid[i] = cells
	}
	return grid, nil
}

func (g *GoogleService) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, len(updates))
	for i, u := range updates {
		data[i] = &sheetsapi.ValueRange{Range: u.Range, Values: u.Values}
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	if _, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: batch update of %d ranges: %w", len(updates), err)
	}
	return nil
}
