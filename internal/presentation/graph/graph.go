// Package graph renders learned hypotheses as DOT and Mermaid.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nvimsul/pkg/domain"
)

type edge struct {
	from, to domain.CanonicalState
	symbols  []domain.Symbol
}

func (e edge) label() string {
	parts := make([]string, len(e.symbols))
	for i, s := range e.symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// stateIDs numbers states in the order of h.States(): s0 is the initial state.
func stateIDs(h *domain.Hypothesis) map[domain.CanonicalState]string {
	ids := make(map[domain.CanonicalState]string, len(h.Access))
	for i, s := range h.States() {
		ids[s] = fmt.Sprintf("s%d", i)
	}
	return ids
}

func mergeEdges(h *domain.Hypothesis) []edge {
	var out []edge
	index := make(map[[2]domain.CanonicalState]int)
	for _, t := range h.Transitions() {
		key := [2]domain.CanonicalState{t.From, t.To}
		if i, ok := index[key]; ok {
			out[i].symbols = append(out[i].symbols, t.Symbol)
			continue
		}
		index[key] = len(out)
		out = append(out, edge{from: t.From, to: t.To, symbols: []domain.Symbol{t.Symbol}})
	}
	return out
}

// GenerateDOT produces a Graphviz digraph in the Moore-machine layout common
// to automata learning tools: node labels are "id|output", one edge per symbol,
// and a shapeless __start0 node pointing at the initial state.
func GenerateDOT(h *domain.Hypothesis) string {
	var sb strings.Builder
	sb.WriteString("digraph learnedModel {\n")

	ids := stateIDs(h)
	for _, s := range h.States() {
		sb.WriteString(fmt.Sprintf("%s [label=\"%s|%s\", shape=record, style=rounded];\n", ids[s], ids[s], escapeDOT(string(s))))
	}
	for _, t := range h.Transitions() {
		sb.WriteString(fmt.Sprintf("%s -> %s  [label=\"%s\"];\n", ids[t.From], ids[t.To], escapeDOT(string(t.Symbol))))
	}
	sb.WriteString("__start0 [label=\"\", shape=none];\n")
	sb.WriteString(fmt.Sprintf("__start0 -> %s  [label=\"\"];\n", ids[h.Initial]))
	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"|", `\|`,
		"<", `\<`,
		">", `\>`,
		"{", `\{`,
		"}", `\}`,
		"\x16", "^V",
		"\x13", "^S",
	)
	return r.Replace(s)
}
