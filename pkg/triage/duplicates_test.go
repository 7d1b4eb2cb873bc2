package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		target   []string
		sibling  []string
		expected int
	}{
		{name: "subset target", target: []string{"a", "b", "c"}, sibling: []string{"a", "b", "c", "d", "e"}, expected: 100},
		{name: "reverse direction", target: []string{"a", "b", "c", "d", "e"}, sibling: []string{"a", "b", "c"}, expected: 60},
		{name: "no overlap", target: []string{"a"}, sibling: []string{"b"}, expected: 0},
		{name: "floor", target: []string{"a", "b", "c"}, sibling: []string{"a"}, expected: 33},
		{name: "empty target", target: nil, sibling: []string{"a"}, expected: 0},
		{name: "empty sibling", target: []string{"a"}, sibling: nil, expected: 0},
		{name: "duplicate target paths", target: []string{"a", "a", "b"}, sibling: []string{"a"}, expected: 66},
		{name: "exact match only", target: []string{"pkg/a.go"}, sibling: []string{"pkg/a.go.orig", "a.go"}, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlap(tt.target, tt.sibling))
		})
	}
}

func TestFindDuplicates(t *testing.T) {
	t.Run("high overlap with another author escalates", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 7, Title: "other", Author: "bob", Files: []string{"x", "y", "z"}}}
		findings := FindDuplicates(1, []string{"x", "y"}, "alice", siblings, 50)
		require.Len(t, findings, 1)
		assert.Equal(t, 7, findings[0].Number)
		assert.Equal(t, 100, findings[0].Overlap)
		assert.Equal(t, v1.RiskHigh, findings[0].Risk)
		assert.Equal(t, highOverlapNote, findings[0].Note)
	})

	t.Run("high overlap with the same author stays medium", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 7, Author: "alice", Files: []string{"x", "y"}}}
		findings := FindDuplicates(1, []string{"x", "y"}, "alice", siblings, 50)
		require.Len(t, findings, 1)
		assert.Equal(t, v1.RiskMedium, findings[0].Risk)
		assert.Equal(t, genericOverlapNote, findings[0].Note)
	})

	t.Run("between threshold and high overlap is medium", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 7, Author: "bob", Files: []string{"a", "b", "c"}}}
		findings := FindDuplicates(1, []string{"a", "b", "c", "d", "e"}, "alice", siblings, 50)
		require.Len(t, findings, 1)
		assert.Equal(t, 60, findings[0].Overlap)
		assert.Equal(t, v1.RiskMedium, findings[0].Risk)
	})

	t.Run("below threshold is dropped", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 7, Author: "bob", Files: []string{"a"}}}
		assert.Empty(t, FindDuplicates(1, []string{"a", "b", "c"}, "alice", siblings, 50))
	})

	t.Run("target pr is skipped", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 1, Author: "alice", Files: []string{"a"}}}
		assert.Empty(t, FindDuplicates(1, []string{"a"}, "alice", siblings, 50))
	})

	t.Run("no target files never reports", func(t *testing.T) {
		siblings := []v1.SiblingPR{{Number: 7, Author: "bob", Files: []string{"a"}}}
		assert.Empty(t, FindDuplicates(1, nil, "alice", siblings, 0))
	})

	t.Run("findings keep sibling order", func(t *testing.T) {
		siblings := []v1.SiblingPR{
			{Number: 9, Author: "bob", Files: []string{"a", "b"}},
			{Number: 3, Author: "carol", Files: []string{"a", "b", "c", "d"}},
			{Number: 5, Author: "dan", Files: []string{"z"}},
			{Number: 4, Author: "erin", Files: []string{"c", "d"}},
		}
		findings := FindDuplicates(1, []string{"a", "b", "c", "d"}, "alice", siblings, 50)
		require.Len(t, findings, 3)
		assert.Equal(t, []int{9, 3, 4}, []int{findings[0].Number, findings[1].Number, findings[2].Number})
		assert.Equal(t, []int{50, 100, 50}, []int{findings[0].Overlap, findings[1].Overlap, findings[2].Overlap})
	})
}
