package task

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarity threshold below which a near match is not worth showing.
const minSimilarity = 0.5

// Filter returns the tasks matching query, best match first. Substring
// matches (case-insensitive) rank ahead of near matches scored by edit
// distance, so a typo in the query still finds the task.
func Filter(tasks []Task, query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}

	type scored struct {
		t     Task
		score float64
	}
	var matches []scored
	for _, t := range tasks {
		text := strings.ToLower(t.Text)
		if strings.Contains(text, q) {
			matches = append(matches, scored{t: t, score: 2})
			continue
		}
		if sim := similarity(q, text); sim >= minSimilarity {
			matches = append(matches, scored{t: t, score: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]Task, len(matches))
	for i, m := range matches {
		out[i] = m.t
	}
	return out
}

func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return 1 - float64(dist)/float64(maxlen)
}
