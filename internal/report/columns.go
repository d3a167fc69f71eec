package report

import (
	"fmt"
	"sort"
	"strings"
)

// trackedYears are the reporting years a section's columns can carry.
var trackedYears = []int{2023, 2024, 2025}

// ColumnRoles maps the roles a table's header can play to 0-indexed
// table columns. It is resolved once per table; all later stages consume
// the resolved roles instead of re-matching header text.
type ColumnRoles struct {
	years map[int]int
}

// yearPredicates is the prioritized match list for one year's column.
// The first predicate any column satisfies wins; within a predicate the
// leftmost column wins.
func yearPredicates(year int) []func(label string) bool {
	y := fmt.Sprintf("%d", year)
	return []func(string) bool{
		func(l string) bool { return strings.Contains(l, "year-"+y) },
		func(l string) bool { return strings.Contains(l, "year "+y) },
		func(l string) bool { return strings.HasSuffix(l, y) },
	}
}

// ResolveColumnRoles resolves the year columns of a table header.
func ResolveColumnRoles(labels []string) ColumnRoles {
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(strings.TrimSpace(l))
	}

	roles := ColumnRoles{years: make(map[int]int)}
	for _, year := range trackedYears {
		for _, match := range yearPredicates(year) {
			found := false
			for col, label := range lowered {
				if match(label) {
					roles.years[year] = col
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}
	return roles
}

// YearColumn returns the 0-indexed table column carrying the given
// year's values.
func (r ColumnRoles) YearColumn(year int) (int, bool) {
	col, ok := r.years[year]
	return col, ok
}

// Years returns the resolved years in ascending order.
func (r ColumnRoles) Years() []int {
	years := make([]int, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// isYOYHeader reports whether a header labels the year-over-year output
// column. The label must name the metric and both compared years.
func isYOYHeader(label string) bool {
	lower := strings.ToLower(label)
	return strings.Contains(lower, "yoy") &&
		strings.Contains(lower, "2024") &&
		strings.Contains(lower, "2025")
}

// isLMHeader reports whether a header labels the last-month output
// column for the current year.
func isLMHeader(label string) bool {
	lower := strings.ToLower(label)
	return strings.Contains(lower, "lm") && strings.Contains(lower, "2025")
}

// isMetricHeader reports whether a header belongs to a computed metric
// column rather than a source year column.
func isMetricHeader(label string) bool {
	lower := strings.ToLower(label)
	return strings.Contains(lower, "yoy") || strings.Contains(lower, "lm") || isPercentChangeText(lower)
}
