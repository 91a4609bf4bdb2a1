package domain

import (
	"slices"
	"sort"
)

// Transition is one observed edge of the mode graph.
type Transition struct {
	From   CanonicalState `json:"from"`
	Symbol Symbol         `json:"symbol"`
	To     CanonicalState `json:"to"`
}

// Hypothesis is the transition graph returned by a learning driver.
// States are identified by their CanonicalState output.
type Hypothesis struct {
	Initial CanonicalState `json:"initial"`

	// Access maps each state to the shortest word reaching it from the initial state.
	Access map[CanonicalState]Word `json:"access"`

	edges map[CanonicalState]map[Symbol]CanonicalState
}

// NewHypothesis creates an empty graph rooted at the initial state.
func NewHypothesis(initial CanonicalState) *Hypothesis {
	return &Hypothesis{
		Initial: initial,
		Access:  map[CanonicalState]Word{initial: {}},
		edges:   make(map[CanonicalState]map[Symbol]CanonicalState),
	}
}

// Record stores an edge. It returns the previously recorded target when the
// same (from, symbol) pair was already seen with a different target.
func (h *Hypothesis) Record(from CanonicalState, sym Symbol, to CanonicalState) (CanonicalState, bool) {
	out, ok := h.edges[from]
	if !ok {
		out = make(map[Symbol]CanonicalState)
		h.edges[from] = out
	}
	if prev, seen := out[sym]; seen && prev != to {
		return prev, true
	}
	out[sym] = to
	return "", false
}

// Discover registers the access word of a state if it is new or shorter.
// It reports whether the state was previously unknown.
func (h *Hypothesis) Discover(s CanonicalState, access Word) bool {
	prev, ok := h.Access[s]
	if !ok || len(access) < len(prev) {
		h.Access[s] = slices.Clone(access)
	}
	return !ok
}

// Next returns the recorded target of (from, sym).
func (h *Hypothesis) Next(from CanonicalState, sym Symbol) (CanonicalState, bool) {
	to, ok := h.edges[from][sym]
	return to, ok
}

// States returns the known states, initial first and then sorted.
func (h *Hypothesis) States() []CanonicalState {
	states := make([]CanonicalState, 0, len(h.Access))
	for s := range h.Access {
		if s != h.Initial {
			states = append(states, s)
		}
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return append([]CanonicalState{h.Initial}, states...)
}

// Transitions returns every edge in a stable order (by state, then symbol).
func (h *Hypothesis) Transitions() []Transition {
	var out []Transition
	for _, from := range h.States() {
		syms := make([]Symbol, 0, len(h.edges[from]))
		for sym := range h.edges[from] {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			out = append(out, Transition{From: from, Symbol: sym, To: h.edges[from][sym]})
		}
	}
	return out
}
