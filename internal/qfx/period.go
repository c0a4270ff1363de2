package qfx

import (
	"fmt"
	"regexp"
	"time"
)

// Quarter identifies one fiscal quarter of a calendar year.
type Quarter struct {
	Year int
	Q    int // 1..4
}

// filename patterns like "2025-Q2.qfx", "2024_Q4.qfx" or "Vanguard_2025Q2.qfx"
var filenameQuarterRe = regexp.MustCompile(`(20\d{2})[-_ ]?Q([1-4])`)

// QuarterOf returns the quarter containing the given date.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// QuarterFromFilename detects the reporting period from a QFX file name.
// The second return value is false when the name carries no quarter token.
func QuarterFromFilename(name string) (Quarter, bool) {
	m := filenameQuarterRe.FindStringSubmatch(name)
	if m == nil {
		return Quarter{}, false
	}
	var q Quarter
	fmt.Sscanf(m[1], "%d", &q.Year)
	fmt.Sscanf(m[2], "%d", &q.Q)
	return q, true
}

// Valid reports whether the quarter is a plausible spreadsheet period.
func (q Quarter) Valid() bool {
	return q.Year >= 2000 && q.Year <= 2099 && q.Q >= 1 && q.Q <= 4
}

// Start returns the first instant of the quarter.
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the quarter at 23:59:59.
func (q Quarter) End() time.Time {
	return q.Start().AddDate(0, 3, 0).Add(-time.Second)
}

// Contains reports whether t falls inside the quarter.
func (q Quarter) Contains(t time.Time) bool {
	return !t.Before(q.Start()) && !t.After(q.End())
}

// Key returns the canonical map key, e.g. "2024_Q4".
func (q Quarter) Key() string {
	return fmt.Sprintf("%d_Q%d", q.Year, q.Q)
}

func (q Quarter) String() string {
	return fmt.Sprintf("%d Q%d", q.Year, q.Q)
}
