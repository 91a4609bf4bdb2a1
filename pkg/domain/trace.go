package domain

import "fmt"

// Trace is the result of one membership query.
// Outputs[0] is the initial observation; Outputs[i+1] follows Word[i].
type Trace struct {
	Word    Word             `json:"word"`
	Outputs []CanonicalState `json:"outputs"`
}

// Validate checks the length invariant between the word and its outputs.
func (t Trace) Validate() error {
	if len(t.Outputs) != len(t.Word)+1 {
		return fmt.Errorf("trace for %q has %d outputs, want %d", t.Word.String(), len(t.Outputs), len(t.Word)+1)
	}
	return nil
}

// Final returns the last observed state.
func (t Trace) Final() CanonicalState {
	if len(t.Outputs) == 0 {
		return ""
	}
	return t.Outputs[len(t.Outputs)-1]
}
