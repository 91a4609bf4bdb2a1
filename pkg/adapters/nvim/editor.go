package nvim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Editor is one live Neovim child process.
type Editor struct {
	v       *nvim.Nvim
	kill    context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ ports.Editor = (*Editor)(nil)

func (e *Editor) handshake(ctx context.Context) error {
	return e.call(ctx, "nvim_get_api_info", func() error {
		_, err := e.v.APIInfo()
		return err
	})
}

func (e *Editor) SetKeymap(ctx context.Context, mode, lhs, rhs string, opts map[string]bool) error {
	if opts == nil {
		opts = map[string]bool{}
	}
	return e.call(ctx, "nvim_set_keymap", func() error {
		return e.v.SetKeyMap(mode, lhs, rhs, opts)
	})
}

func (e *Editor) SetOption(ctx context.Context, name string, value any) error {
	return e.call(ctx, "nvim_set_option_value", func() error {
		return e.v.Request("nvim_set_option_value", nil, name, value, map[string]any{"scope": "global"})
	})
}

func (e *Editor) Mode(ctx context.Context) (domain.RawMode, error) {
	var raw domain.RawMode
	err := e.call(ctx, "nvim_get_mode", func() error {
		m, err := e.v.Mode()
		if err != nil {
			return err
		}
		raw = domain.RawMode{Mode: m.Mode, Blocking: m.Blocking}
		return nil
	})
	return raw, err
}

func (e *Editor) Input(ctx context.Context, keys string) error {
	return e.call(ctx, "nvim_input", func() error {
		_, err := e.v.Input(keys)
		return err
	})
}

// Close ends the process. Later calls return the first result.
func (e *Editor) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = e.v.Close()
		e.kill()
	})
	return e.closeErr
}

// call runs fn under the RPC deadline. On expiry the process is killed so a
// wedged editor can never be reused.
func (e *Editor) call(ctx context.Context, method string, fn func() error) error {
	abandoned, err := guard(ctx, e.timeout, fn)
	if err == nil {
		return nil
	}
	if abandoned {
		e.logger.Error("rpc call abandoned, killing editor", "method", method, "timeout", e.timeout, "error", err)
		e.kill()
		_ = e.Close()
	}
	return fmt.Errorf("%s: %w", method, err)
}
