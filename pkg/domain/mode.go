package domain

// RawMode is the editor's native mode descriptor as returned by nvim_get_mode.
type RawMode struct {
	// Mode is the short mode code ("n", "no", "i", "\x16", ...).
	Mode string `json:"mode" msgpack:"mode"`

	// Blocking is true when the editor waits for further input
	// (e.g. after "g" or "r" in normal mode).
	Blocking bool `json:"blocking" msgpack:"blocking"`
}

// CanonicalState is a classified editor mode, drawn from a fixed enumeration.
type CanonicalState string

const (
	// StateNormal is the designated initial state of every fresh instance.
	StateNormal CanonicalState = "Normal"

	// InitialModeCode is the raw mode code a fresh instance must report.
	InitialModeCode = "n"

	// BlockingSuffix is appended to the label of blocking modes.
	BlockingSuffix = " waiting for input (blocking)"
)

// AdapterStatus is the lifecycle status of a SUL adapter.
type AdapterStatus string

const (
	StatusUninitialized AdapterStatus = "uninitialized" // No live process
	StatusReady         AdapterStatus = "ready"         // Freshly reset, no input sent yet
	StatusMidQuery      AdapterStatus = "mid_query"     // At least one step issued since reset
)
