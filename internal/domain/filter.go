package domain

import "fmt"

// Filter restricts the displayed tasks by status.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterInactive Filter = "inactive"
)

var Filters = []Filter{FilterAll, FilterActive, FilterInactive}

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterActive, FilterInactive:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Label is the tab caption.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterInactive:
		return "Inactive"
	default:
		return "All Tasks"
	}
}

// Matches reports whether t is visible under f. Missing entries and tasks
// without a status are only visible under "all".
func (f Filter) Matches(t *Task) bool {
	if t == nil || t.Status == nil {
		return f == FilterAll
	}
	switch f {
	case FilterActive:
		return *t.Status
	case FilterInactive:
		return !*t.Status
	default:
		return true
	}
}
