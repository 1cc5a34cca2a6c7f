package search

import (
	"sort"

	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

// mergeCandidates unions candidate lists into a single ranked list with each
// content id appearing at most once. When the same id arrives from both
// backends the higher normalized score wins; an exact tie keeps the
// vector-sourced candidate. Ordering is normalized score descending, with
// vector candidates ahead on equal scores and adapter-native order last.
func mergeCandidates(lists ...[]candidate.Candidate) []candidate.Candidate {
	type slot struct {
		cand  candidate.Candidate
		order int
	}

	index := make(map[string]int)
	var merged []slot
	pos := 0

	for _, list := range lists {
		for _, c := range list {
			pos++
			i, seen := index[c.ContentID]
			if !seen {
				index[c.ContentID] = len(merged)
				merged = append(merged, slot{cand: c, order: pos})
				continue
			}
			if betterCandidate(c, merged[i].cand) {
				merged[i].cand = c
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.cand.NormalizedScore != b.cand.NormalizedScore {
			return a.cand.NormalizedScore > b.cand.NormalizedScore
		}
		av, bv := a.cand.Source == method.Vector, b.cand.Source == method.Vector
		if av != bv {
			return av
		}
		return a.order < b.order
	})

	out := make([]candidate.Candidate, len(merged))
	for i, s := range merged {
		out[i] = s.cand
	}
	return out
}

// betterCandidate decides which duplicate to keep. Cross-method comparison
// is legitimate only on normalized scores.
func betterCandidate(next, current candidate.Candidate) bool {
	if next.NormalizedScore != current.NormalizedScore {
		return next.NormalizedScore > current.NormalizedScore
	}
	return next.Source == method.Vector && current.Source != method.Vector
}
