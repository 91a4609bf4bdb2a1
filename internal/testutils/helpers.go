// Package testutils provides an in-process stand-in for a Neovim process.
package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// ErrClosed is returned by a FakeEditor after Close.
var ErrClosed = errors.New("fake editor closed")

// Keymap records one SetKeymap call.
type Keymap struct {
	Mode, LHS, RHS string
	Opts           map[string]bool
}

// Option records one SetOption call.
type Option struct {
	Name  string
	Value any
}

// FakeEditor is a tiny modal machine answering the ports.Editor calls.
// It understands enough keys to exercise the adapter: ":", "v", "<C-v>", "i",
// "c", "g", "r" and the usual ways back to normal mode.
type FakeEditor struct {
	mu       sync.Mutex
	raw      domain.RawMode
	closed   bool
	Keymaps  []Keymap
	Options  []Option
	Inputs   []string
	Target   string
	ModeErr  error
	InputErr error
	MapErr   error
	onClose  func()
}

// NewFakeEditor returns an editor in normal mode.
func NewFakeEditor() *FakeEditor {
	return &FakeEditor{raw: domain.RawMode{Mode: "n"}}
}

// SetRaw forces the next reported mode.
func (e *FakeEditor) SetRaw(raw domain.RawMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.raw = raw
}

// Closed reports whether Close was called.
func (e *FakeEditor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *FakeEditor) SetKeymap(ctx context.Context, mode, lhs, rhs string, opts map[string]bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.MapErr != nil {
		return e.MapErr
	}
	e.Keymaps = append(e.Keymaps, Keymap{Mode: mode, LHS: lhs, RHS: rhs, Opts: opts})
	return nil
}

func (e *FakeEditor) SetOption(ctx context.Context, name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.Options = append(e.Options, Option{Name: name, Value: value})
	return nil
}

func (e *FakeEditor) Mode(ctx context.Context) (domain.RawMode, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.RawMode{}, ErrClosed
	}
	if e.ModeErr != nil {
		return domain.RawMode{}, e.ModeErr
	}
	return e.raw, nil
}

func (e *FakeEditor) Input(ctx context.Context, keys string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.InputErr != nil {
		return e.InputErr
	}
	e.Inputs = append(e.Inputs, keys)
	e.raw = next(e.raw, keys)
	return nil
}

func (e *FakeEditor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	onClose := e.onClose
	e.mu.Unlock()
	if onClose != nil {
		onClose()
	}
	return nil
}

func isEscape(keys string) bool {
	return keys == "<Esc>" || keys == "<C-c>" || keys == `<C-\><C-n>`
}

func next(cur domain.RawMode, keys string) domain.RawMode {
	normal := domain.RawMode{Mode: "n"}
	switch cur.Mode {
	case "n":
		if cur.Blocking {
			if keys == "v" {
				return domain.RawMode{Mode: "v"}
			}
			return normal
		}
		switch keys {
		case ":":
			return domain.RawMode{Mode: "c"}
		case "v":
			return domain.RawMode{Mode: "v"}
		case "<C-v>":
			return domain.RawMode{Mode: "\x16"}
		case "i":
			return domain.RawMode{Mode: "i"}
		case "c":
			return domain.RawMode{Mode: "no"}
		case "g", "r":
			return domain.RawMode{Mode: "n", Blocking: true}
		}
		return normal
	case "c":
		if isEscape(keys) || keys == "<CR>" {
			return normal
		}
	case "v", "\x16":
		switch {
		case isEscape(keys):
			return normal
		case keys == "v":
			if cur.Mode == "v" {
				return normal
			}
			return domain.RawMode{Mode: "v"}
		case keys == "<C-v>":
			if cur.Mode == "\x16" {
				return normal
			}
			return domain.RawMode{Mode: "\x16"}
		case keys == "c":
			return domain.RawMode{Mode: "i"}
		case keys == ":":
			return domain.RawMode{Mode: "c"}
		}
	case "i":
		if isEscape(keys) {
			return normal
		}
		if keys == "<C-o>" {
			return domain.RawMode{Mode: "niI"}
		}
	case "niI":
		return domain.RawMode{Mode: "i"}
	case "no", "nov":
		switch {
		case isEscape(keys), keys == "l", keys == "0":
			return normal
		case keys == "v":
			return domain.RawMode{Mode: "nov"}
		case keys == "c":
			return domain.RawMode{Mode: "i"}
		}
	}
	return cur
}

// FakeSpawner hands out FakeEditors and tracks how many are alive.
type FakeSpawner struct {
	mu       sync.Mutex
	Editors  []*FakeEditor
	SpawnErr error
	live     int

	// Prepare, when set, customizes every editor before it is returned.
	Prepare func(*FakeEditor)
}

var _ ports.Spawner = (*FakeSpawner)(nil)

func (s *FakeSpawner) Spawn(ctx context.Context, target string) (ports.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SpawnErr != nil {
		return nil, s.SpawnErr
	}
	e := NewFakeEditor()
	e.Target = target
	e.onClose = func() {
		s.mu.Lock()
		s.live--
		s.mu.Unlock()
	}
	if s.Prepare != nil {
		s.Prepare(e)
	}
	s.Editors = append(s.Editors, e)
	s.live++
	return e, nil
}

// Live returns the number of spawned editors not yet closed.
func (s *FakeSpawner) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Spawned returns the number of editors ever spawned.
func (s *FakeSpawner) Spawned() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Editors)
}

// Last returns the most recently spawned editor.
func (s *FakeSpawner) Last() *FakeEditor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Editors) == 0 {
		return nil
	}
	return s.Editors[len(s.Editors)-1]
}
