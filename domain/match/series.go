package match

import "sort"

// NormalizeSeries sorts a timestamp series ascending, removes duplicates,
// and guarantees the primary timestamp is present. A nil or empty series
// yields a one-element series containing only the primary timestamp.
func NormalizeSeries(series []int64, primary int64) []int64 {
	out := make([]int64, 0, len(series)+1)
	out = append(out, series...)
	out = append(out, primary)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:1]
	for _, v := range out[1:] {
		if v != dedup[len(dedup)-1] {
			dedup = append(dedup, v)
		}
	}
	return dedup
}

// NormalizeFrames returns the frame series, defaulting to a one-element
// series holding the primary frame when none was supplied.
func NormalizeFrames(frames []int, primary int) []int {
	if len(frames) == 0 {
		return []int{primary}
	}
	return append([]int(nil), frames...)
}
