// Package classifier maps raw editor mode descriptors to canonical states.
//
// The mapping is an explicit finite table so that totality can be checked
// mechanically. It is pure: nothing but the RawMode is consulted.
package classifier

import (
	"maps"
	"sort"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// table maps every mode code Neovim reports through nvim_get_mode to its label.
// See :help mode().
var table = map[string]domain.CanonicalState{
	"n":      "Normal",
	"no":     "Operator-pending",
	"nov":    "Operator-pending charwise",
	"noV":    "Operator-pending linewise",
	"no\x16": "Operator-pending blockwise",
	"niI":    "Insert Normal (insert)",
	"niR":    "Replace Normal (replace)",
	"niV":    "Virtual Replace Normal",
	"nt":     "Normal in terminal-emulator",
	"v":      "Visual",
	"vs":     "Select Visual",
	"V":      "Visual Line",
	"Vs":     "Select Visual Line",
	"\x16":   "Visual Block",
	"\x16s":  "Select Visual Block",
	"s":      "Select",
	"S":      "Select Line",
	"\x13":   "Select Block",
	"i":      "Insert",
	"ic":     "Insert Command-line completion",
	"ix":     "Insert Ctrl-X Mode",
	"R":      "Replace",
	"Rc":     "Replace Command-line completion",
	"Rx":     "Replace Ctrl-X Mode",
	"Rv":     "Virtual Replace",
	"Rvc":    "Virtual Replace mode completion",
	"c":      "Command-line editing",
	"cv":     "Ex mode",
	"r":      "Hit-enter prompt",
	"rm":     "The more prompt",
	"t":      "Terminal mode",
}

// Classify returns the canonical state of raw.
// An unknown code is a *domain.ClassificationError; it is never defaulted.
func Classify(raw domain.RawMode) (domain.CanonicalState, error) {
	label, ok := table[raw.Mode]
	if !ok {
		return "", &domain.ClassificationError{Raw: raw}
	}
	if raw.Blocking {
		return label + domain.BlockingSuffix, nil
	}
	return label, nil
}

// Table returns a copy of the classification table, keyed by mode code.
func Table() map[string]domain.CanonicalState {
	return maps.Clone(table)
}

// Label returns the non-blocking label of code.
func Label(code string) (domain.CanonicalState, bool) {
	label, ok := table[code]
	return label, ok
}

// MustClassify is Classify for codes known to be in the table.
func MustClassify(raw domain.RawMode) domain.CanonicalState {
	s, err := Classify(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Codes returns every known mode code in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// States returns the full enumeration of canonical states (both blocking
// variants of every code), sorted.
func States() []domain.CanonicalState {
	states := make([]domain.CanonicalState, 0, 2*len(table))
	for _, label := range table {
		states = append(states, label, label+domain.BlockingSuffix)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// IsCanonical reports whether s belongs to the enumeration.
func IsCanonical(s domain.CanonicalState) bool {
	for _, label := range table {
		if s == label || s == label+domain.BlockingSuffix {
			return true
		}
	}
	return false
}
