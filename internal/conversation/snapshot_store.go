package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// redisSnapshotStore keeps flat session snapshots in Redis so a conversation
// survives a restart or an idle eviction.
type redisSnapshotStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a snapshot store backed by Redis. The TTL is
// refreshed on every save, so only abandoned sessions age out. A nil tracer
// falls back to the global provider.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) SnapshotStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("taxassist.internal.conversation.snapshots")
	}
	return &redisSnapshotStore{redis: client, tracer: tracer, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *redisSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_snapshot")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(snap.SessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist snapshot: %w", err)
	}
	return nil
}

func (s *redisSnapshotStore) Load(ctx context.Context, sessionID string) (Snapshot, bool, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_snapshot")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		span.RecordError(err)
		return Snapshot{}, false, fmt.Errorf("conversation: failed to load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return Snapshot{}, false, fmt.Errorf("conversation: failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *redisSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "conversation.delete_snapshot")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to delete snapshot: %w", err)
	}
	return nil
}
