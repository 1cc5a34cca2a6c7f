package search

import (
	"testing"

	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

func vecCand(id string, score float64) candidate.Candidate {
	return candidate.Candidate{ContentID: id, NormalizedScore: score, Source: method.Vector}
}

func ftsCand(id string, score float64) candidate.Candidate {
	return candidate.Candidate{ContentID: id, NormalizedScore: score, Source: method.FTS}
}

func TestMergeCandidates_DeduplicatesKeepingHigherScore(t *testing.T) {
	merged := mergeCandidates(
		[]candidate.Candidate{vecCand("a", 0.8)},
		[]candidate.Candidate{ftsCand("a", 0.6), ftsCand("b", 1.0)},
	)
	if len(merged) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(merged))
	}
	if merged[0].ContentID != "b" || !almostEqual(merged[0].NormalizedScore, 1.0) {
		t.Errorf("expected b@1.0 first, got %s@%v", merged[0].ContentID, merged[0].NormalizedScore)
	}
	if merged[1].ContentID != "a" || !almostEqual(merged[1].NormalizedScore, 0.8) {
		t.Errorf("expected a@0.8 second, got %s@%v", merged[1].ContentID, merged[1].NormalizedScore)
	}
	if merged[1].Source != method.Vector {
		t.Errorf("duplicate should keep the higher-scored vector candidate, got %s", merged[1].Source)
	}
}

func TestMergeCandidates_TiePrefersVector(t *testing.T) {
	merged := mergeCandidates(
		[]candidate.Candidate{ftsCand("a", 0.7)},
		[]candidate.Candidate{vecCand("a", 0.7)},
	)
	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(merged))
	}
	if merged[0].Source != method.Vector {
		t.Errorf("exact tie should keep the vector candidate, got %s", merged[0].Source)
	}
}

func TestMergeCandidates_SortsDescending(t *testing.T) {
	merged := mergeCandidates([]candidate.Candidate{
		vecCand("low", 0.3),
		vecCand("high", 0.9),
		vecCand("mid", 0.6),
	})
	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if merged[i].ContentID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, merged[i].ContentID)
		}
	}
}

func TestMergeCandidates_EqualScoresVectorFirstThenNativeOrder(t *testing.T) {
	merged := mergeCandidates(
		[]candidate.Candidate{vecCand("v1", 0.5), vecCand("v2", 0.5)},
		[]candidate.Candidate{ftsCand("f1", 0.5), ftsCand("f2", 0.5)},
	)
	want := []string{"v1", "v2", "f1", "f2"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(merged))
	}
	for i, id := range want {
		if merged[i].ContentID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, merged[i].ContentID)
		}
	}
}

func TestMergeCandidates_Empty(t *testing.T) {
	if got := mergeCandidates(nil, nil); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}
