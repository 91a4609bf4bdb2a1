package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/nvimsul"
	"github.com/aretw0/nvimsul/internal/presentation/graph"
	"github.com/aretw0/nvimsul/internal/presentation/tui"
	"github.com/aretw0/nvimsul/pkg/domain"
)

// TraceOptions configures the trace command.
type TraceOptions struct {
	// Keys, when set, runs one batch query instead of the REPL.
	Keys     []string
	Headless bool
	// Mermaid prints the observed path as a diagram at the end.
	Mermaid bool
}

// RunTrace queries the editor interactively (or once, in batch mode) and
// prints every observed state.
func RunTrace(ctx context.Context, env *Env, in io.Reader, opts TraceOptions) error {
	sul, err := env.NewSUL()
	if err != nil {
		return err
	}
	defer sul.Close()

	var trace domain.Trace
	if len(opts.Keys) > 0 {
		trace, err = traceBatch(ctx, env, sul, ParseWord(opts.Keys))
	} else {
		trace, err = traceInteractive(ctx, env, sul, in, opts.Headless)
	}
	if err != nil && !isInterrupted(err) {
		return err
	}

	if opts.Mermaid && len(trace.Outputs) > 0 {
		fmt.Fprint(env.Out, graph.GenerateMermaid(hypothesisFromTrace(trace), graph.OverlayFromTrace(trace)))
	}
	return handleExecutionError(err)
}

func traceBatch(ctx context.Context, env *Env, sul *nvimsul.SUL, word domain.Word) (domain.Trace, error) {
	trace, err := sul.Query(ctx, word)
	if err != nil {
		return domain.Trace{}, err
	}
	fmt.Fprintf(env.Out, "%s\n", trace.Outputs[0])
	for i, sym := range trace.Word {
		fmt.Fprintf(env.Out, "%s -> %s\n", sym, trace.Outputs[i+1])
	}
	return trace, nil
}

func traceInteractive(ctx context.Context, env *Env, sul *nvimsul.SUL, in io.Reader, headless bool) (domain.Trace, error) {
	if !headless {
		tui.PrintBanner(env.Out)
		printSystemMessage(env.Out, "Symbols: %s", strings.Join(sul.Alphabet().Strings(), " "))
		printSystemMessage(env.Out, "Type symbols separated by spaces; 'reset' starts over, 'exit' quits.")
	}

	r := nvimsul.NewRunner(NewInterruptibleReader(in, ctx.Done()), env.Out)
	r.Headless = headless
	trace, err := r.Run(ctx, sul)

	if !headless {
		logCompletion(env.Out, err, signalOf(ctx))
	}
	return trace, err
}

// ParseWord turns CLI arguments into a word. Each argument may hold several
// space separated symbols.
func ParseWord(args []string) domain.Word {
	var w domain.Word
	for _, a := range args {
		for _, f := range strings.Fields(a) {
			w = append(w, domain.Symbol(f))
		}
	}
	return w
}

// hypothesisFromTrace builds the path graph of a single trace.
func hypothesisFromTrace(t domain.Trace) *domain.Hypothesis {
	h := domain.NewHypothesis(t.Outputs[0])
	for i, sym := range t.Word {
		h.Record(t.Outputs[i], sym, t.Outputs[i+1])
		h.Discover(t.Outputs[i+1], t.Word[:i+1])
	}
	return h
}

func signalOf(ctx context.Context) os.Signal {
	if sc, ok := ctx.(*SignalContext); ok {
		return sc.Signal()
	}
	return nil
}
