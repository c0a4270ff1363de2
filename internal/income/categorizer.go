// Package income classifies investment income transactions by account
// tax treatment and aggregates them into quarterly records.
package income

import (
	"fmt"
	"strings"

	"github.com/mlowell/networth-tracker/internal/config"
	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/shopspring/decimal"
)

// TaxTreatment describes when income from an account becomes taxable.
type TaxTreatment int

const (
	TreatmentUnknown TaxTreatment = iota
	TaxFree                       // e.g. Roth IRA
	TaxDeferred                   // e.g. traditional IRA, 401(k)
	TaxedNow                      // taxable brokerage
)

func (t TaxTreatment) String() string {
	switch t {
	case TaxFree:
		return config.TreatmentTaxFree
	case TaxDeferred:
		return config.TreatmentTaxDeferred
	case TaxedNow:
		return config.TreatmentTaxedNow
	default:
		return "Unknown"
	}
}

// ParseTreatment converts a config label into a TaxTreatment.
func ParseTreatment(s string) (TaxTreatment, error) {
	switch s {
	case config.TreatmentTaxFree:
		return TaxFree, nil
	case config.TreatmentTaxDeferred:
		return TaxDeferred, nil
	case config.TreatmentTaxedNow:
		return TaxedNow, nil
	default:
		return TreatmentUnknown, fmt.Errorf("income: unknown tax treatment %q", s)
	}
}

// UnmappedAccountError is returned when a transaction references an account
// that has no tax treatment configured. It aborts the run: silently
// miscategorizing income is worse than failing.
type UnmappedAccountError struct {
	AccountID string
}

func (e *UnmappedAccountError) Error() string {
	return fmt.Sprintf("income: account %s has no tax treatment mapping", e.AccountID)
}

// Record is the quarterly income breakdown written to the spreadsheet.
type Record struct {
	TaxFree     decimal.Decimal
	TaxDeferred decimal.Decimal
	TaxedNow    decimal.Decimal
}

// Total returns the sum across all three categories.
func (r Record) Total() decimal.Decimal {
	return r.TaxFree.Add(r.TaxDeferred).Add(r.TaxedNow)
}

func (r Record) String() string {
	return fmt.Sprintf("tax-free=%s tax-deferred=%s taxed-now=%s total=%s",
		r.TaxFree.StringFixed(2), r.TaxDeferred.StringFixed(2),
		r.TaxedNow.StringFixed(2), r.Total().StringFixed(2))
}

// fund name keywords that mark income as tax-exempt even in a taxable account
var taxExemptKeywords = []string{"MUNICIPAL", "MUN", "CALIFORNIA", "TAX EXEMPT"}

// Categorizer sums transactions into a Record according to the account
// tax treatment mapping. It is a pure function over its inputs.
type Categorizer struct {
	treatments map[string]TaxTreatment
	fundNames  map[string]string // CUSIP -> fund name
}

// NewCategorizer builds a categorizer from the config mappings.
func NewCategorizer(accounts map[string]string, funds map[string]string) (*Categorizer, error) {
	treatments := make(map[string]TaxTreatment, len(accounts))
	for accountID, label := range accounts {
		treatment, err := ParseTreatment(label)
		if err != nil {
			return nil, fmt.Errorf("income: account %s: %w", accountID, err)
		}
		treatments[accountID] = treatment
	}
	return &Categorizer{treatments: treatments, fundNames: funds}, nil
}

// Categorize classifies every transaction by its account's tax treatment
// and returns the summed Record. Income from municipal or otherwise
// tax-exempt funds held in a Taxed-Now account counts as tax-free.
// A transaction whose account is not in the mapping fails the whole batch
// with *UnmappedAccountError.
func (c *Categorizer) Categorize(txns []qfx.Transaction) (Record, error) {
	var rec Record

	for _, txn := range txns {
		treatment, ok := c.treatments[txn.AccountID]
		if !ok {
			return Record{}, &UnmappedAccountError{AccountID: txn.AccountID}
		}

		switch treatment {
		case TaxFree:
			rec.TaxFree = rec.TaxFree.Add(txn.Amount)
		case TaxDeferred:
			rec.TaxDeferred = rec.TaxDeferred.Add(txn.Amount)
		case TaxedNow:
			if c.isTaxExempt(txn) {
				rec.TaxFree = rec.TaxFree.Add(txn.Amount)
			} else {
				rec.TaxedNow = rec.TaxedNow.Add(txn.Amount)
			}
		}
	}

	return rec, nil
}

// isTaxExempt reports whether the transaction's income is exempt despite
// sitting in a taxable account: either the QFX entry is flagged TAXEXEMPT
// or the fund name matches a municipal keyword.
func (c *Categorizer) isTaxExempt(txn qfx.Transaction) bool {
	if txn.TaxExempt {
		return true
	}
	name := strings.ToUpper(c.fundNames[txn.CUSIP])
	if name == "" {
		return false
	}
	for _, kw := range taxExemptKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
