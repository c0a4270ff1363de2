package qfx

import (
	"sort"
	"time"
)

// Repository collects income transactions from multiple QFX files and
// drops duplicates. Vanguard re-exports overlap at quarter boundaries and
// FITIDs are not stable across downloads, so duplicates are detected by
// content instead: (account, trade date, amount, memo, income type).
type Repository struct {
	transactions []Transaction
	seen         map[signature]bool
	sourceFiles  []string
	duplicates   int
}

type signature struct {
	account    string
	date       string
	amount     string
	memo       string
	incomeType string
}

func signatureOf(t Transaction) signature {
	return signature{
		account:    t.AccountID,
		date:       t.Date.Format("20060102"),
		amount:     t.Amount.String(),
		memo:       t.Memo,
		incomeType: t.IncomeType,
	}
}

// NewRepository creates an empty transaction repository.
func NewRepository() *Repository {
	return &Repository{seen: make(map[signature]bool)}
}

// Add appends the transactions from one source file, skipping duplicates.
// It returns the number of transactions actually added.
func (r *Repository) Add(txns []Transaction, sourceFile string) int {
	added := 0
	for _, t := range txns {
		sig := signatureOf(t)
		if r.seen[sig] {
			r.duplicates++
			continue
		}
		r.seen[sig] = true
		r.transactions = append(r.transactions, t)
		added++
	}
	r.sourceFiles = append(r.sourceFiles, sourceFile)
	return added
}

// All returns a copy of every transaction in the repository.
func (r *Repository) All() []Transaction {
	out := make([]Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

// InRange returns the transactions whose trade date falls in [start, end].
func (r *Repository) InRange(start, end time.Time) []Transaction {
	var out []Transaction
	for _, t := range r.transactions {
		if !t.Date.Before(start) && !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out
}

// ForQuarter returns the transactions belonging to the given quarter.
func (r *Repository) ForQuarter(q Quarter) []Transaction {
	return r.InRange(q.Start(), q.End())
}

// Quarters returns the distinct quarters present, in chronological order.
func (r *Repository) Quarters() []Quarter {
	set := make(map[Quarter]bool)
	for _, t := range r.transactions {
		set[t.Quarter()] = true
	}
	out := make([]Quarter, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// Duplicates returns how many duplicate transactions were dropped.
func (r *Repository) Duplicates() int { return r.duplicates }

// SourceFiles returns the names of the files loaded so far.
func (r *Repository) SourceFiles() []string { return r.sourceFiles }

// Len returns the number of unique transactions held.
func (r *Repository) Len() int { return len(r.transactions) }
