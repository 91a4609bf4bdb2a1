package nvimsul

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Runner drives a SUL interactively: every line read from Input is a list of
// whitespace separated symbols, each delivered in turn and answered with the
// state it leads to.
//
// Lines "reset" and "exit" (or "quit") are commands. EOF ends the session.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool

	// OnStep, when set, is called after every successful step with the
	// trace observed since the last reset.
	OnStep func(domain.Trace)
}

// NewRunner creates a Runner reading from in and writing to out.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run resets sul and processes input until EOF, exit or cancellation.
// It returns the trace of the last session. Unknown symbols and
// classification failures are reported and the session continues; process
// failures end the run.
func (r *Runner) Run(ctx context.Context, sul ports.SUL) (domain.Trace, error) {
	if r.Input == nil {
		return domain.Trace{}, fmt.Errorf("input reader must be set")
	}
	if r.Output == nil {
		return domain.Trace{}, fmt.Errorf("output writer must be set")
	}
	lines := bufio.NewScanner(r.Input)

	trace, err := r.restart(ctx, sul)
	if err != nil {
		return domain.Trace{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return trace, fmt.Errorf("input error: %w", err)
			}
			return trace, nil
		}

		line := strings.TrimSpace(lines.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return trace, nil
		case "reset":
			if trace, err = r.restart(ctx, sul); err != nil {
				return trace, err
			}
			continue
		}

		for _, field := range strings.Fields(line) {
			sym := domain.Symbol(field)
			state, err := sul.Step(ctx, sym)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrUnknownSymbol), errors.Is(err, domain.ErrClassification):
				fmt.Fprintf(r.Output, "%s: %v\n", sym, err)
				continue
			default:
				return trace, err
			}
			trace.Word = trace.Word.Append(sym)
			trace.Outputs = append(trace.Outputs, state)
			fmt.Fprintf(r.Output, "%s -> %s\n", sym, state)
			if r.OnStep != nil {
				r.OnStep(trace)
			}
		}
	}
}

// restart rebuilds the instance and observes its initial state.
func (r *Runner) restart(ctx context.Context, sul ports.SUL) (domain.Trace, error) {
	if err := sul.Post(ctx); err != nil {
		return domain.Trace{}, err
	}
	if err := sul.Pre(ctx); err != nil {
		return domain.Trace{}, err
	}
	initial, err := sul.Step(ctx, domain.NoSymbol)
	if err != nil {
		return domain.Trace{}, err
	}
	fmt.Fprintf(r.Output, "%s\n", initial)
	trace := domain.Trace{Outputs: []domain.CanonicalState{initial}}
	if r.OnStep != nil {
		r.OnStep(trace)
	}
	return trace, nil
}
