package collection

import (
	"fmt"
	"time"
)

type item struct {
	id       string
	name     string
	created  string
	status   string
	category string
	metrics  map[SortField]float64
}

func (i item) RecordID() string    { return i.id }
func (i item) DisplayName() string { return i.name }
func (i item) Status() string      { return i.status }
func (i item) Category() string    { return i.category }

func (i item) Created() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", i.created)
	return t, err == nil
}

func (i item) Metric(f SortField) (float64, bool) {
	v, ok := i.metrics[f]
	return v, ok
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func numbered(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{id: fmt.Sprintf("r%03d", i), name: "rec"}
	}
	return out
}
