package collection

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type comparator[T Record] func(a, b T) int

// Sort returns a stably sorted copy of records. Descending order negates
// the primary comparison; the tie-break field always sorts ascending.
func Sort[T Record](records []T, c SortCriteria) []T {
	out := make([]T, len(records))
	copy(out, records)
	if len(out) < 2 || c.Field == "" {
		return out
	}

	primary := comparatorFor[T](c.Field)
	var tie comparator[T]
	if c.TieBreak != "" && c.TieBreak != c.Field {
		tie = comparatorFor[T](c.TieBreak)
	}
	desc := c.Direction == Descending

	slices.SortStableFunc(out, func(a, b T) int {
		r := primary(a, b)
		if desc {
			r = -r
		}
		if r == 0 && tie != nil {
			r = tie(a, b)
		}
		return r
	})
	return out
}

func comparatorFor[T Record](field SortField) comparator[T] {
	switch field {
	case SortByName:
		// Collators keep internal buffers, so each sort gets its own.
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b T) int {
			return col.CompareString(a.DisplayName(), b.DisplayName())
		}
	case SortByDate:
		return func(a, b T) int {
			ta, okA := a.Created()
			tb, okB := b.Created()
			if c, done := compareMissing(okA, okB); done {
				return c
			}
			return ta.Compare(tb)
		}
	default:
		return func(a, b T) int {
			va, okA := a.Metric(field)
			vb, okB := b.Metric(field)
			if c, done := compareMissing(okA, okB); done {
				return c
			}
			return cmp.Compare(va, vb)
		}
	}
}

// compareMissing orders absent keys after present ones and keeps absent
// keys equal to each other, so they retain insertion order.
func compareMissing(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case !okA && !okB:
		return 0, true
	case !okA:
		return 1, true
	default:
		return -1, true
	}
}
