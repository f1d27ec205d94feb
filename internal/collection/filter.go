package collection

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records matching c, in input order. The input slice
// is left untouched.
func Filter[T Record](records []T, c FilterCriteria) []T {
	c = c.Normalize()
	out := make([]T, 0, len(records))
	if len(records) == 0 {
		return out
	}

	fold := cases.Fold()
	term := fold.String(c.SearchTerm)

	for _, r := range records {
		if term != "" && !strings.Contains(fold.String(r.DisplayName()), term) {
			continue
		}
		if !matchesStatus(r, c.StatusFilter) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesStatus(r Record, status string) bool {
	switch status {
	case "":
		return true
	case StatusUnread:
		return r.Status() == ""
	}
	if strings.EqualFold(r.Status(), status) {
		return true
	}
	cat := r.Category()
	return cat != "" && strings.EqualFold(cat, status)
}
