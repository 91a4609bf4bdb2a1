package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/nvimsul/internal/presentation/graph"
	"github.com/aretw0/nvimsul/pkg/domain"
)

func sample() *domain.Hypothesis {
	h := domain.NewHypothesis(domain.StateNormal)
	blocking := domain.CanonicalState("Normal" + domain.BlockingSuffix)
	h.Discover("Visual", domain.Word{"v"})
	h.Discover(blocking, domain.Word{"g"})
	h.Discover("Command-line editing", domain.Word{":"})
	h.Record(domain.StateNormal, "v", "Visual")
	h.Record("Visual", "v", domain.StateNormal)
	h.Record("Visual", "<Esc>", domain.StateNormal)
	h.Record(domain.StateNormal, "g", blocking)
	h.Record(blocking, "v", "Visual")
	h.Record(domain.StateNormal, ":", "Command-line editing")
	h.Record("Command-line editing", `<C-\><C-n>`, domain.StateNormal)
	return h
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`s0(("Normal"))`,
				`{{"Normal waiting for input (blocking)"}}`,
				`["Visual"]`,
			},
		},
		{
			name: "Merged Edges Are Escaped",
			contains: []string{
				`-- "#lt;Esc#gt;, v" --> s0`,
				`-- "#lt;C-\#gt;#lt;C-n#gt;" --> s0`,
			},
			excludes: []string{"<Esc>"},
		},
		{
			name:    "Overlay",
			overlay: graph.OverlayFromTrace(domain.Trace{Word: domain.Word{"v"}, Outputs: []domain.CanonicalState{domain.StateNormal, "Visual"}}),
			contains: []string{
				"class s0 visited;",
				"current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(), tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateDOT(t *testing.T) {
	got := graph.GenerateDOT(sample())

	assert.True(t, strings.HasPrefix(got, "digraph learnedModel {\n"))
	assert.Contains(t, got, `s0 [label="s0|Normal"`)
	assert.Contains(t, got, `__start0 -> s0`)
	assert.Contains(t, got, `[label="\<C-\\\>\<C-n\>"]`)
	assert.Equal(t, len(sample().Transitions()), strings.Count(got, "  [label=")-1)
}
