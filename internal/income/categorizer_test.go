package income

import (
	"errors"
	"testing"
	"time"

	"github.com/mlowell/networth-tracker/internal/qfx"
	"github.com/shopspring/decimal"
)

var testAccounts = map[string]string{
	"AAAA": "Tax-Free",
	"BBBB": "Tax-Deferred",
	"CCCC": "Taxed-Now",
}

var testFunds = map[string]string{
	"922021209": "Vanguard CA Municipal Money Market",
	"922908728": "Vanguard Total Stock Market Index",
}

func txn(account, amount, cusip string) qfx.Transaction {
	return qfx.Transaction{
		AccountID: account,
		Date:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString(amount),
		CUSIP:     cusip,
	}
}

func TestCategorize(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, testFunds)
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}

	rec, err := cat.Categorize([]qfx.Transaction{
		txn("AAAA", "100.00", "922908728"),
		txn("CCCC", "50.00", "922908728"),
	})
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	if !rec.TaxFree.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("TaxFree = %s, want 100.00", rec.TaxFree)
	}
	if !rec.TaxDeferred.IsZero() {
		t.Errorf("TaxDeferred = %s, want 0", rec.TaxDeferred)
	}
	if !rec.TaxedNow.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("TaxedNow = %s, want 50.00", rec.TaxedNow)
	}
}

// Conservation: the category totals must sum to the input total.
func TestCategorize_Conservation(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, testFunds)
	if err != nil {
		t.Fatal(err)
	}

	txns := []qfx.Transaction{
		txn("AAAA", "10.11", ""),
		txn("BBBB", "20.22", ""),
		txn("CCCC", "30.33", "922908728"),
		txn("CCCC", "40.44", "922021209"), // municipal, routed to tax-free
	}

	inputTotal := decimal.Zero
	for _, tx := range txns {
		inputTotal = inputTotal.Add(tx.Amount)
	}

	rec, err := cat.Categorize(txns)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if !rec.Total().Equal(inputTotal) {
		t.Errorf("Total() = %s, want %s", rec.Total(), inputTotal)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, testFunds)
	if err != nil {
		t.Fatal(err)
	}

	txns := []qfx.Transaction{
		txn("AAAA", "1.23", ""),
		txn("BBBB", "4.56", ""),
		txn("CCCC", "7.89", "922908728"),
	}

	first, err := cat.Categorize(txns)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cat.Categorize(txns)
	if err != nil {
		t.Fatal(err)
	}

	if !first.TaxFree.Equal(second.TaxFree) ||
		!first.TaxDeferred.Equal(second.TaxDeferred) ||
		!first.TaxedNow.Equal(second.TaxedNow) {
		t.Errorf("Categorize not deterministic: %v vs %v", first, second)
	}
}

func TestCategorize_UnmappedAccount(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, testFunds)
	if err != nil {
		t.Fatal(err)
	}

	_, err = cat.Categorize([]qfx.Transaction{
		txn("AAAA", "100.00", ""),
		txn("ZZZZ", "1.00", ""),
	})

	var unmapped *UnmappedAccountError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected *UnmappedAccountError, got %v", err)
	}
	if unmapped.AccountID != "ZZZZ" {
		t.Errorf("AccountID = %q, want %q", unmapped.AccountID, "ZZZZ")
	}
}

func TestCategorize_MunicipalOverride(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, testFunds)
	if err != nil {
		t.Fatal(err)
	}

	// Municipal fund in a taxable account: income is tax-free.
	rec, err := cat.Categorize([]qfx.Transaction{txn("CCCC", "60.00", "922021209")})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.TaxFree.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("TaxFree = %s, want 60.00", rec.TaxFree)
	}
	if !rec.TaxedNow.IsZero() {
		t.Errorf("TaxedNow = %s, want 0", rec.TaxedNow)
	}
}

func TestCategorize_TaxExemptFlag(t *testing.T) {
	cat, err := NewCategorizer(testAccounts, nil)
	if err != nil {
		t.Fatal(err)
	}

	flagged := txn("CCCC", "15.00", "unknown-cusip")
	flagged.TaxExempt = true

	rec, err := cat.Categorize([]qfx.Transaction{flagged})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.TaxFree.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("TaxFree = %s, want 15.00 for TAXEXEMPT-flagged income", rec.TaxFree)
	}
}

func TestNewCategorizer_BadLabel(t *testing.T) {
	_, err := NewCategorizer(map[string]string{"X": "Sometimes-Taxed"}, nil)
	if err == nil {
		t.Error("expected error for unknown treatment label")
	}
}

func TestParseTreatment(t *testing.T) {
	tests := []struct {
		label   string
		want    TaxTreatment
		wantErr bool
	}{
		{"Tax-Free", TaxFree, false},
		{"Tax-Deferred", TaxDeferred, false},
		{"Taxed-Now", TaxedNow, false},
		{"tax-free", TreatmentUnknown, true},
		{"", TreatmentUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTreatment(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTreatment(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTreatment(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}
