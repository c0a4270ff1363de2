package qfx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aclindsa/ofxgo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ParseIncomeFile opens a QFX file and extracts its investment income
// transactions. See ParseIncome for the extraction rules.
func ParseIncomeFile(path string, log zerolog.Logger) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qfx: opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseIncome(f, filepath.Base(path), log)
}

// ParseIncome reads a QFX document and returns all INCOME transactions
// across its investment statements, sorted by (account, date). Entries
// missing a trade date or with an unparsable amount are skipped with a
// warning; the file as a whole only fails when the OFX envelope does.
func ParseIncome(r io.Reader, sourceName string, log zerolog.Logger) ([]Transaction, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("qfx: parsing %s: %w", sourceName, err)
	}

	var txns []Transaction

	for _, msg := range resp.InvStmt {
		stmt, ok := msg.(*ofxgo.InvStatementResponse)
		if !ok {
			continue
		}

		accountID := string(stmt.InvAcctFrom.AcctID)
		if stmt.InvTranList == nil {
			continue
		}

		for _, itran := range stmt.InvTranList.InvTransactions {
			income, ok := itran.(ofxgo.Income)
			if !ok {
				continue
			}

			if income.InvTran.DtTrade.IsZero() {
				log.Warn().
					Str("source", sourceName).
					Str("account", accountID).
					Str("fitid", string(income.InvTran.FiTID)).
					Msg("Skipping income entry without trade date")
				continue
			}

			amount, err := decimal.NewFromString(income.Total.String())
			if err != nil {
				log.Warn().
					Str("source", sourceName).
					Str("account", accountID).
					Str("fitid", string(income.InvTran.FiTID)).
					Str("total", income.Total.String()).
					Msg("Skipping income entry with unparsable amount")
				continue
			}

			txns = append(txns, Transaction{
				AccountID:  accountID,
				Date:       income.InvTran.DtTrade.Time,
				FITID:      string(income.InvTran.FiTID),
				Memo:       string(income.InvTran.Memo),
				Amount:     amount,
				CUSIP:      string(income.SecID.UniqueID),
				IncomeType: income.IncomeType.String(),
				TaxExempt:  bool(income.TaxExempt),
				SourceFile: sourceName,
			})
		}
	}

	sort.Slice(txns, func(i, j int) bool {
		if txns[i].AccountID != txns[j].AccountID {
			return txns[i].AccountID < txns[j].AccountID
		}
		return txns[i].Date.Before(txns[j].Date)
	})

	return txns, nil
}

// Discover resolves the --data argument into a list of QFX file paths:
// either the single file given, or every .qfx/.ofx file in the directory,
// sorted by name.
func Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("qfx: stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("qfx: reading directory %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".qfx", ".ofx", ".QFX", ".OFX":
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("qfx: no QFX files found in %s", path)
	}
	return files, nil
}
