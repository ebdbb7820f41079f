package stores

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

type RedisClient = redis.UniversalClient

// redisHistory keeps one list per user key. Save replaces the whole list in
// a transactional pipeline so a concurrent Load never observes a partially
// rewritten record.
type redisHistory struct {
	rc RedisClient
}

// NewRedisHistory connects to the redis at uri and pings it once.
func NewRedisHistory(uri string) (History, error) {
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	rc := redis.NewClient(opt)
	if err = rc.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisHistoryWithClient(rc), nil
}

// NewRedisHistoryWithClient wraps an existing client, for tests.
func NewRedisHistoryWithClient(rc RedisClient) History {
	return &redisHistory{rc: rc}
}

func (s *redisHistory) Load(ctx context.Context, userID string) (data chat.Messages, err error) {
	ss := s.rc.LRange(ctx, getKey(userID), 0, -1)
	if err = ss.ScanSlice(&data); err != nil {
		logger().Infow("scan history fail", "user", userID, "err", err)
		return chat.Messages{}, nil
	}
	if data == nil {
		data = chat.Messages{}
	}
	return
}

func (s *redisHistory) Save(ctx context.Context, userID string, msgs chat.Messages) error {
	key := getKey(userID)
	pipe := s.rc.TxPipeline()
	pipe.Del(ctx, key)
	for _, msg := range msgs {
		b, err := msg.MarshalBinary()
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, b)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger().Infow("save history fail", "key", key, "err", err)
		return err
	}
	return nil
}

func (s *redisHistory) Clear(ctx context.Context, userID string) error {
	return s.rc.Del(ctx, getKey(userID)).Err()
}

func getKey(userID string) string {
	return "chats-" + userID
}
