package learning

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

type node struct {
	output   domain.CanonicalState
	children map[domain.Symbol]*node
}

func (n *node) child(sym domain.Symbol) *node {
	if n.children == nil {
		n.children = make(map[domain.Symbol]*node)
	}
	c, ok := n.children[sym]
	if !ok {
		c = &node{}
		n.children[sym] = c
	}
	return c
}

// CacheStats counts how queries were answered.
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Nodes  int `json:"nodes"`
}

// Cache is a SUL decorator backed by a prefix trie of every observed output.
//
// Whole queries (Query) already covered by the trie are answered without
// touching the inner SUL. Every executed step is compared against the trie;
// a disagreement is reported as a *domain.NonDeterminismError.
type Cache struct {
	mu     sync.Mutex
	inner  ports.SUL
	root   *node
	store  ports.ObservationStore
	logger *slog.Logger
	stats  CacheStats

	// cursor of the step-level protocol
	cur  *node
	path domain.Word
}

var (
	_ ports.SUL = (*Cache)(nil)
	_ Querier   = (*Cache)(nil)
)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStore writes every freshly answered query through to store.
func WithStore(store ports.ObservationStore) CacheOption {
	return func(c *Cache) {
		c.store = store
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache wraps inner.
func NewCache(inner ports.SUL, opts ...CacheOption) *Cache {
	c := &Cache{
		inner:  inner,
		root:   &node{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Lookup returns the cached trace of word, if every output is known.
func (c *Cache) Lookup(word domain.Word) (domain.Trace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(word)
}

func (c *Cache) lookup(word domain.Word) (domain.Trace, bool) {
	n := c.root
	if n.output == "" {
		return domain.Trace{}, false
	}
	outputs := []domain.CanonicalState{n.output}
	for _, sym := range word {
		next, ok := n.children[sym]
		if !ok || next.output == "" {
			return domain.Trace{}, false
		}
		n = next
		outputs = append(outputs, n.output)
	}
	return domain.Trace{Word: slices.Clone(word), Outputs: outputs}, true
}

// Insert merges a trace into the trie. It fails on the first output that
// disagrees with an earlier observation and leaves the rest untouched.
func (c *Cache) Insert(trace domain.Trace) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(trace)
}

func (c *Cache) insert(trace domain.Trace) error {
	if err := trace.Validate(); err != nil {
		return err
	}
	if err := c.observe(c.root, domain.Word{}, trace.Outputs[0]); err != nil {
		return err
	}
	n := c.root
	for i, sym := range trace.Word {
		n = n.child(sym)
		if err := c.observe(n, trace.Word[:i+1], trace.Outputs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) observe(n *node, prefix domain.Word, got domain.CanonicalState) error {
	if n.output == "" {
		n.output = got
		c.stats.Nodes++
		return nil
	}
	if n.output != got {
		return &domain.NonDeterminismError{Word: slices.Clone(prefix), Expected: n.output, Got: got}
	}
	return nil
}

// Query answers word from the trie when possible and otherwise runs it on the
// inner SUL, checks it against the trie and records it.
func (c *Cache) Query(ctx context.Context, word domain.Word) (domain.Trace, error) {
	c.mu.Lock()
	if t, ok := c.lookup(word); ok {
		c.stats.Hits++
		c.mu.Unlock()
		return t, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	trace, err := Run(ctx, c.inner, word)
	if err != nil {
		return domain.Trace{}, err
	}

	c.mu.Lock()
	err = c.insert(trace)
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("non-deterministic answer", "word", word.String(), "error", err)
		return domain.Trace{}, err
	}

	if c.store != nil {
		if err := c.store.Save(ctx, trace); err != nil {
			return domain.Trace{}, fmt.Errorf("persist observation: %w", err)
		}
	}
	return trace, nil
}

// Pre forwards to the inner SUL and rewinds the step cursor.
func (c *Cache) Pre(ctx context.Context) error {
	if err := c.inner.Pre(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.cur = nil
	c.path = nil
	c.mu.Unlock()
	return nil
}

// Step forwards to the inner SUL and checks the output against the trie.
func (c *Cache) Step(ctx context.Context, sym domain.Symbol) (domain.CanonicalState, error) {
	out, err := c.inner.Step(ctx, sym)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case sym == domain.NoSymbol && c.cur == nil:
		c.cur = c.root
	case sym == domain.NoSymbol:
		// a repeated observation without input must not change the answer
	case c.cur == nil:
		return "", fmt.Errorf("%w: step %q before the initial observation", domain.ErrPrecondition, sym)
	default:
		c.cur = c.cur.child(sym)
		c.path = append(c.path, sym)
	}
	if err := c.observe(c.cur, c.path, out); err != nil {
		return "", err
	}
	return out, nil
}

// Post forwards to the inner SUL.
func (c *Cache) Post(ctx context.Context) error {
	c.mu.Lock()
	c.cur = nil
	c.path = nil
	c.mu.Unlock()
	return c.inner.Post(ctx)
}

// Warm loads every trace of store into the trie.
func (c *Cache) Warm(ctx context.Context, store ports.ObservationStore) (int, error) {
	traces, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list observations: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range traces {
		if err := c.insert(t); err != nil {
			return 0, fmt.Errorf("stored observation %q: %w", t.Word.String(), err)
		}
	}
	return len(traces), nil
}

// Flush saves one trace per maximal word of the trie.
func (c *Cache) Flush(ctx context.Context, store ports.ObservationStore) (int, error) {
	c.mu.Lock()
	traces := c.leaves()
	c.mu.Unlock()

	for _, t := range traces {
		if err := store.Save(ctx, t); err != nil {
			return 0, fmt.Errorf("save observation %q: %w", t.Word.String(), err)
		}
	}
	return len(traces), nil
}

func (c *Cache) leaves() []domain.Trace {
	if c.root.output == "" {
		return nil
	}
	var out []domain.Trace
	var walk func(n *node, word domain.Word, outputs []domain.CanonicalState)
	walk = func(n *node, word domain.Word, outputs []domain.CanonicalState) {
		syms := make([]domain.Symbol, 0, len(n.children))
		for sym, child := range n.children {
			if child.output != "" {
				syms = append(syms, sym)
			}
		}
		if len(syms) == 0 {
			out = append(out, domain.Trace{Word: slices.Clone(word), Outputs: slices.Clone(outputs)})
			return
		}
		slices.Sort(syms)
		for _, sym := range syms {
			child := n.children[sym]
			walk(child, append(word, sym), append(outputs, child.output))
		}
	}
	walk(c.root, domain.Word{}, []domain.CanonicalState{c.root.output})
	return out
}
