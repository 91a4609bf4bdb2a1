package ports

import (
	"context"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// Editor is the RPC boundary to exactly one live editor process.
// Every call blocks until the round-trip completes or ctx expires.
type Editor interface {
	// SetKeymap installs a global mapping (nvim_set_keymap).
	SetKeymap(ctx context.Context, mode, lhs, rhs string, opts map[string]bool) error

	// SetOption sets a global option (nvim_set_option_value).
	SetOption(ctx context.Context, name string, value any) error

	// Mode returns the raw mode descriptor (nvim_get_mode).
	Mode(ctx context.Context) (domain.RawMode, error)

	// Input queues keys as if typed (nvim_input).
	Input(ctx context.Context, keys string) error

	// Close terminates the process and releases its resources.
	// Calling Close more than once is allowed.
	Close() error
}

// Spawner creates fresh, isolated editor processes.
type Spawner interface {
	// Spawn starts one process editing target and completes the RPC handshake.
	Spawn(ctx context.Context, target string) (Editor, error)
}
