package report

import "sort"

// TopN returns the topN rows with the highest key, highest first. Rows with
// equal keys keep their input order. topN <= 0 yields an empty slice and a
// topN beyond len(rows) returns every row. rows is not modified.
func TopN[T any](rows []T, topN int, key func(T) float64) []T {
	if topN <= 0 || len(rows) == 0 {
		return []T{}
	}
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}
