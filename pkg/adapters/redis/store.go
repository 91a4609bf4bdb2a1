package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "nvimsul:obs:"

// Store implements ports.ObservationStore using Redis.
// Each trace is a JSON string; a ZSET scored by word length indexes them so
// List returns shorter words first.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ObservationStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration for stored traces.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Use one prefix per editor version and
// profile: observations are only comparable under the same configuration.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to build a Locker on it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(wordKey string) string {
	return s.prefix + "trace:" + wordKey
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

type record struct {
	Word    domain.Word             `json:"word"`
	Outputs []domain.CanonicalState `json:"outputs"`
}

// Save persists the trace to Redis.
func (s *Store) Save(ctx context.Context, trace domain.Trace) error {
	if err := trace.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(record{Word: trace.Word, Outputs: trace.Outputs})
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	wk := trace.Word.Key()
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(wk), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(len(trace.Word)),
		Member: wk,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the trace from Redis.
func (s *Store) Load(ctx context.Context, word domain.Word) (domain.Trace, error) {
	val, err := s.client.Get(ctx, s.key(word.Key())).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Trace{}, domain.ErrObservationNotFound
		}
		return domain.Trace{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decode(val)
}

// Delete removes the trace.
func (s *Store) Delete(ctx context.Context, word domain.Word) error {
	wk := word.Key()
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(wk))
	pipe.ZRem(ctx, s.indexKey(), wk)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns every stored trace, shortest word first.
// Index entries whose trace has expired are pruned lazily.
func (s *Store) List(ctx context.Context) ([]domain.Trace, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}
	if len(members) == 0 {
		return []domain.Trace{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = s.key(m)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch traces: %w", err)
	}

	traces := make([]domain.Trace, 0, len(vals))
	var stale []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, members[i])
			continue
		}
		t, err := decode(str)
		if err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired traces: %w", err)
		}
	}
	return traces, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(val string) (domain.Trace, error) {
	var r record
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return domain.Trace{}, fmt.Errorf("failed to unmarshal trace: %w", err)
	}
	if r.Word == nil {
		r.Word = domain.Word{}
	}
	t := domain.Trace{Word: r.Word, Outputs: r.Outputs}
	if err := t.Validate(); err != nil {
		return domain.Trace{}, fmt.Errorf("corrupt trace: %w", err)
	}
	return t, nil
}
