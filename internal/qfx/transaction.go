package qfx

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one investment income entry extracted from a QFX file.
type Transaction struct {
	AccountID  string          // INVACCTFROM/ACCTID
	Date       time.Time       // INVTRAN/DTTRADE
	FITID      string          // INVTRAN/FITID, inconsistent across downloads
	Memo       string          // INVTRAN/MEMO
	Amount     decimal.Decimal // INCOME/TOTAL
	CUSIP      string          // SECID/UNIQUEID
	IncomeType string          // INCOME/INCOMETYPE, e.g. DIV, INTEREST
	TaxExempt  bool            // INCOME/TAXEXEMPT
	SourceFile string
}

// Quarter returns the fiscal quarter the transaction's trade date falls in.
func (t Transaction) Quarter() Quarter {
	return QuarterOf(t.Date)
}
