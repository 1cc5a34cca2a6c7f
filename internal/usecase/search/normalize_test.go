package search

import (
	"math"
	"testing"

	"github.com/pocketmind/pocketmind/internal/domain/search/hit"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarityFromDistance(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 1.0},
		{0.2, 0.9},
		{0.6, 0.7},
		{1.0, 0.5},
		{2.0, 0.0},
		{-0.1, 1.0}, // clamped
		{2.5, 0.0},  // clamped
	}
	for _, c := range cases {
		got := similarityFromDistance(c.distance)
		if !almostEqual(got, c.want) {
			t.Errorf("similarityFromDistance(%v) = %v, want %v", c.distance, got, c.want)
		}
	}
}

func TestNormalizeNeighbors_PreservesOrder(t *testing.T) {
	neighbors := []hit.Neighbor{
		{ContentID: "a", Distance: 0.2},
		{ContentID: "b", Distance: 0.6},
		{ContentID: "c", Distance: 1.0},
	}
	cands := normalizeNeighbors(neighbors)
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	wantScores := []float64{0.9, 0.7, 0.5}
	for i, c := range cands {
		if c.ContentID != neighbors[i].ContentID {
			t.Errorf("candidate %d: expected id %s, got %s", i, neighbors[i].ContentID, c.ContentID)
		}
		if !almostEqual(c.NormalizedScore, wantScores[i]) {
			t.Errorf("candidate %d: expected score %v, got %v", i, wantScores[i], c.NormalizedScore)
		}
		if c.Source != method.Vector {
			t.Errorf("candidate %d: expected vector source, got %s", i, c.Source)
		}
	}
}

func TestNormalizeTextHits_MinMax(t *testing.T) {
	hits := []hit.TextHit{
		{ContentID: "best", Rank: 3.0},
		{ContentID: "mid", Rank: 2.0},
		{ContentID: "worst", Rank: 1.0},
	}
	cands := normalizeTextHits(hits, DefaultScoreFloor)
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	if !almostEqual(cands[0].NormalizedScore, 1.0) {
		t.Errorf("best: expected 1.0, got %v", cands[0].NormalizedScore)
	}
	if !almostEqual(cands[1].NormalizedScore, 0.55) {
		t.Errorf("mid: expected 0.55, got %v", cands[1].NormalizedScore)
	}
	if !almostEqual(cands[2].NormalizedScore, DefaultScoreFloor) {
		t.Errorf("worst: expected %v, got %v", DefaultScoreFloor, cands[2].NormalizedScore)
	}
	for i, c := range cands {
		if c.Source != method.FTS {
			t.Errorf("candidate %d: expected fts source, got %s", i, c.Source)
		}
	}
}

func TestNormalizeTextHits_SingleHitScoresOne(t *testing.T) {
	cands := normalizeTextHits([]hit.TextHit{{ContentID: "only", Rank: -4.2}}, DefaultScoreFloor)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if !almostEqual(cands[0].NormalizedScore, 1.0) {
		t.Errorf("single hit: expected 1.0, got %v", cands[0].NormalizedScore)
	}
}

func TestNormalizeTextHits_EqualRanksScoreOne(t *testing.T) {
	hits := []hit.TextHit{
		{ContentID: "a", Rank: 2.0},
		{ContentID: "b", Rank: 2.0},
	}
	for _, c := range normalizeTextHits(hits, DefaultScoreFloor) {
		if !almostEqual(c.NormalizedScore, 1.0) {
			t.Errorf("%s: expected 1.0 for equal ranks, got %v", c.ContentID, c.NormalizedScore)
		}
	}
}

func TestNormalizeTextHits_Empty(t *testing.T) {
	if got := normalizeTextHits(nil, DefaultScoreFloor); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
