package search

import (
	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/hit"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

// DefaultScoreFloor is the lowest normalized score assigned to a full-text
// hit. A floor above zero keeps FTS-only results distinguishable from
// "no match" when merged against vector scores.
const DefaultScoreFloor = 0.1

// similarityFromDistance maps a cosine distance in [0,2] onto [0,1]:
// distance 0 (identical) scores 1.0, distance 2 (opposite) scores 0.0.
func similarityFromDistance(d float64) float64 {
	s := 1 - d/2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// normalizeNeighbors converts raw vector hits into candidates, preserving
// the store's ordering.
func normalizeNeighbors(neighbors []hit.Neighbor) []candidate.Candidate {
	out := make([]candidate.Candidate, len(neighbors))
	for i, n := range neighbors {
		out[i] = candidate.Candidate{
			ContentID:       n.ContentID,
			RawScore:        n.Distance,
			NormalizedScore: similarityFromDistance(n.Distance),
			Source:          method.Vector,
		}
	}
	return out
}

// normalizeTextHits min–max scales the rank statistic over this result set:
// the best rank scores 1.0, the worst scores floor. A single hit, or a set
// where every rank is equal, scores 1.0.
func normalizeTextHits(hits []hit.TextHit, floor float64) []candidate.Candidate {
	if len(hits) == 0 {
		return nil
	}

	best, worst := hits[0].Rank, hits[0].Rank
	for _, h := range hits[1:] {
		if h.Rank > best {
			best = h.Rank
		}
		if h.Rank < worst {
			worst = h.Rank
		}
	}

	out := make([]candidate.Candidate, len(hits))
	for i, h := range hits {
		score := 1.0
		if best != worst {
			score = floor + (1-floor)*(h.Rank-worst)/(best-worst)
		}
		out[i] = candidate.Candidate{
			ContentID:       h.ContentID,
			RawScore:        h.Rank,
			NormalizedScore: score,
			Source:          method.FTS,
		}
	}
	return out
}
