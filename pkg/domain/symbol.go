package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Symbol is one input action delivered to the editor: a single key or a short
// key sequence in Neovim key notation (e.g. "l", "<C-g>", "<C-\><C-n>").
// The empty Symbol means "no input".
type Symbol string

// NoSymbol asks Step to observe the current state without sending input.
const NoSymbol Symbol = ""

// Alphabet is a finite, ordered, duplicate-free set of symbols.
type Alphabet struct {
	symbols []Symbol
	index   map[Symbol]int
}

// NewAlphabet validates and builds an alphabet preserving the given order.
func NewAlphabet(symbols ...Symbol) (Alphabet, error) {
	if len(symbols) == 0 {
		return Alphabet{}, fmt.Errorf("alphabet must contain at least one symbol")
	}
	a := Alphabet{
		symbols: make([]Symbol, 0, len(symbols)),
		index:   make(map[Symbol]int, len(symbols)),
	}
	for _, s := range symbols {
		if s == NoSymbol {
			return Alphabet{}, fmt.Errorf("alphabet contains an empty symbol")
		}
		if _, dup := a.index[s]; dup {
			return Alphabet{}, fmt.Errorf("duplicate symbol in alphabet: %q", s)
		}
		a.index[s] = len(a.symbols)
		a.symbols = append(a.symbols, s)
	}
	return a, nil
}

// ParseAlphabet builds an alphabet from plain strings.
func ParseAlphabet(keys []string) (Alphabet, error) {
	symbols := make([]Symbol, len(keys))
	for i, k := range keys {
		symbols[i] = Symbol(k)
	}
	return NewAlphabet(symbols...)
}

// DefaultAlphabet returns the shipped alphabet. Every symbol in it has been
// observed to keep the classified behavior Markovian under the default profile.
func DefaultAlphabet() Alphabet {
	a, err := NewAlphabet(
		"l", "<C-g>", "0", "<C-v>", "c", ":", "v", "g", "<C-o>", "r",
		"<Esc>", "<CR>", "<C-c>", `<C-\><C-n>`,
	)
	if err != nil {
		panic(err)
	}
	return a
}

// Symbols returns a copy of the ordered symbols.
func (a Alphabet) Symbols() []Symbol {
	out := make([]Symbol, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Len returns the number of symbols.
func (a Alphabet) Len() int { return len(a.symbols) }

// At returns the i-th symbol.
func (a Alphabet) At(i int) Symbol { return a.symbols[i] }

// Contains reports whether s belongs to the alphabet.
func (a Alphabet) Contains(s Symbol) bool {
	_, ok := a.index[s]
	return ok
}

// Strings returns the symbols as plain strings.
func (a Alphabet) Strings() []string {
	out := make([]string, len(a.symbols))
	for i, s := range a.symbols {
		out[i] = string(s)
	}
	return out
}

// MarshalJSON encodes the alphabet as an ordered list of strings.
func (a Alphabet) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Strings())
}

// Word is an ordered sequence of symbols submitted as one query.
type Word []Symbol

// Key returns a stable, unambiguous encoding of the word.
// Used by caches and observation stores.
func (w Word) Key() string {
	if len(w) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(w)
	return string(b)
}

// ParseWordKey is the inverse of Word.Key.
func ParseWordKey(key string) (Word, error) {
	var w Word
	if err := json.Unmarshal([]byte(key), &w); err != nil {
		return nil, fmt.Errorf("invalid word key %q: %w", key, err)
	}
	return w, nil
}

// String renders the word as space separated symbols.
func (w Word) String() string {
	parts := make([]string, len(w))
	for i, s := range w {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// Append returns a new word with s appended, leaving w untouched.
func (w Word) Append(s ...Symbol) Word {
	out := make(Word, 0, len(w)+len(s))
	out = append(out, w...)
	return append(out, s...)
}
