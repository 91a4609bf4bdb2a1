package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.CanonicalState
	CurrentState  domain.CanonicalState
}

// OverlayFromTrace marks every state of the trace as visited and the last one as current.
func OverlayFromTrace(t domain.Trace) *GraphOverlay {
	return &GraphOverlay{VisitedStates: t.Outputs, CurrentState: t.Final()}
}

// GenerateMermaid produces a Mermaid flowchart of the observed transitions.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Blocking states: {{Hexagon}}
// - Default: [Rectangle]
// Symbols sharing the same source and target are merged into one edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(h *domain.Hypothesis, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := stateIDs(h)
	for _, s := range h.States() {
		opener, closer := "[", "]"
		switch {
		case s == h.Initial:
			opener, closer = "((", "))"
		case strings.HasSuffix(string(s), domain.BlockingSuffix):
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", ids[s], opener, escapeMermaid(string(s)), closer))
	}

	for _, e := range mergeEdges(h) {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", ids[e.from], escapeMermaid(e.label()), ids[e.to]))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			id, ok := ids[s]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}
		if id, ok := ids[overlay.CurrentState]; ok {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
		}
	}

	return sb.String()
}

// escapeMermaid replaces characters Mermaid would interpret inside quoted labels.
func escapeMermaid(s string) string {
	r := strings.NewReplacer(
		`"`, "#quot;",
		"<", "#lt;",
		">", "#gt;",
		"\x16", "^V",
		"\x13", "^S",
	)
	return r.Replace(s)
}
