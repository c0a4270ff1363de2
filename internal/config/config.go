package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Valid tax treatment labels for account mappings.
const (
	TreatmentTaxFree     = "Tax-Free"
	TreatmentTaxDeferred = "Tax-Deferred"
	TreatmentTaxedNow    = "Taxed-Now"
)

// Config holds the externally supplied run configuration: the target
// spreadsheet, the account tax treatment table, and the CUSIP fund names.
type Config struct {
	// SpreadsheetID is the Google Sheets document ID of the net-worth workbook.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// CredentialsFile points at the Google service-account or OAuth client
	// JSON. Empty means application default credentials.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	// Accounts maps Vanguard account IDs to a tax treatment label
	// (Tax-Free, Tax-Deferred or Taxed-Now).
	Accounts map[string]string `yaml:"accounts"`

	// Funds maps CUSIP identifiers to fund names, used for tax-exempt
	// fund detection and report output.
	Funds map[string]string `yaml:"funds,omitempty"`
}

// Load reads and validates a YAML config file. NETWORTH_SPREADSHEET_ID and
// GOOGLE_APPLICATION_CREDENTIALS override the corresponding file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if id := os.Getenv("NETWORTH_SPREADSHEET_ID"); id != "" {
		cfg.SpreadsheetID = id
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" && cfg.CredentialsFile == "" {
		cfg.CredentialsFile = creds
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks required fields and rejects unknown tax treatment labels
// so a typo in the mapping fails the run up front instead of at write time.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet_id is required")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("accounts mapping is empty")
	}
	for accountID, treatment := range c.Accounts {
		switch treatment {
		case TreatmentTaxFree, TreatmentTaxDeferred, TreatmentTaxedNow:
		default:
			return fmt.Errorf("account %s: unknown tax treatment %q", accountID, treatment)
		}
	}
	return nil
}
