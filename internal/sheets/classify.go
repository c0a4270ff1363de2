package sheets

import (
	"regexp"
	"strings"
)

// SheetKind classifies a sheet tab by what the tool may do with it. Only
// Year sheets are scanned for quarterly columns; the rest are left alone.
type SheetKind int

const (
	KindUnknown SheetKind = iota
	KindYear              // annual data sheet, e.g. "2025"
	KindGraph             // charts and visualizations
	KindOverview          // summary / dashboard
	KindReference         // read-only notes
)

func (k SheetKind) String() string {
	switch k {
	case KindYear:
		return "year"
	case KindGraph:
		return "graph"
	case KindOverview:
		return "overview"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

var yearTitleRe = regexp.MustCompile(`^\s*20\d{2}\s*$`)

// Classify maps a sheet title to its kind.
func Classify(title string) SheetKind {
	if yearTitleRe.MatchString(title) {
		return KindYear
	}

	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "graph") || strings.Contains(lower, "chart"):
		return KindGraph
	case strings.Contains(lower, "overview") || strings.Contains(lower, "summary") || strings.Contains(lower, "dashboard"):
		return KindOverview
	case strings.Contains(lower, "notes") || strings.Contains(lower, "reference"):
		return KindReference
	default:
		return KindUnknown
	}
}

// YearSheets filters titles down to annual data sheets, preserving order.
func YearSheets(titles []string) []string {
	var out []string
	for _, title := range titles {
		if Classify(title) == KindYear {
			out = append(out, title)
		}
	}
	return out
}
