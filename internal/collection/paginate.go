package collection

// DefaultPageSize applies when a caller asks for a non-positive page size.
const DefaultPageSize = 10

// Page is one slice of a collection together with its clamped state.
type Page[T any] struct {
	Items []T       `json:"items"`
	State PageState `json:"page"`
}

// Paginate slices records into the page described by state. TotalItems is
// always recomputed from len(records) and CurrentPage is clamped into
// [1, TotalPages]; the returned state reports the clamped page.
func Paginate[T any](records []T, state PageState) Page[T] {
	per := state.ItemsPerPage
	if per <= 0 {
		per = DefaultPageSize
	}
	total := len(records)
	pages := (total + per - 1) / per
	if pages < 1 {
		pages = 1
	}

	current := state.CurrentPage
	if current < 1 {
		current = 1
	}
	if current > pages {
		current = pages
	}

	start := (current - 1) * per
	end := start + per
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]T, end-start)
	copy(items, records[start:end])

	return Page[T]{
		Items: items,
		State: PageState{
			CurrentPage:  current,
			ItemsPerPage: per,
			TotalItems:   total,
			TotalPages:   pages,
			HasNext:      current < pages,
			HasPrevious:  current > 1,
		},
	}
}
