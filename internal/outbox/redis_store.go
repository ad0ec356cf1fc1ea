package outbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mirror_shop/internal/redis"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps the queue in a redis list so pending writes survive a
// client restart.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Push(ctx context.Context, entries ...Entry) error {
	encoded := make([][]byte, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode outbox entry: %w", err)
		}
		encoded = append(encoded, data)
	}
	return s.client.PushPending(ctx, encoded...)
}

func (s *redisStore) Drain(ctx context.Context) ([]Entry, error) {
	raw, err := s.client.PopAllPending(ctx)
	entries := make([]Entry, 0, len(raw))
	for _, data := range raw {
		var e Entry
		if uerr := json.Unmarshal(data, &e); uerr != nil {
			zap.L().Error("dropping undecodable outbox entry", zap.ByteString("entry", data), zap.Error(uerr))
			continue
		}
		entries = append(entries, e)
	}
	return entries, err
}

func (s *redisStore) Len(ctx context.Context) (int, error) {
	return s.client.PendingCount(ctx)
}
