// Package session keeps per-browser scheduling state alive between
// requests. A Store persists the durable snapshot; the Manager hosts the
// live controllers and writes snapshots back after each mutation.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lucasmonteiro/agendei/internal/booking"
)

// ErrNotFound marks a session id with no stored state.
var ErrNotFound = errors.New("session: not found")

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// Store persists session snapshots.
type Store interface {
	Load(ctx context.Context, id string) (booking.State, error)
	Save(ctx context.Context, id string, st booking.State) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps snapshots in Redis so sessions survive restarts and
// can be shared across replicas.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore wires a store on an existing client. A zero ttl means
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("agendei.internal.session"),
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *RedisStore) Load(ctx context.Context, id string) (booking.State, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	var st booking.State
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return st, ErrNotFound
		}
		span.RecordError(err)
		return st, fmt.Errorf("session: failed to load %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		span.RecordError(err)
		return st, fmt.Errorf("session: failed to decode %s: %w", id, err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, st booking.State) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(st)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal %s: %w", id, err)
	}
	if err := s.redis.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete %s: %w", id, err)
	}
	return nil
}

// MemoryStore is the single-process fallback when Redis is not
// configured. Entries expire lazily on read.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	state     booking.State
	expiresAt time.Time
}

// NewMemoryStore creates an in-process store. A zero ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (booking.State, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return booking.State{}, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return booking.State{}, ErrNotFound
	}
	return entry.state, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, st booking.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{state: st, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
