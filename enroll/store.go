package enroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// セッションの有効期限。期限切れは単に消えるだけで、永続データには影響しません。
const sessionTTL = 24 * time.Hour

// SessionStore は一時セッションの保管先です。見つからない場合は(nil, nil)を返します。
type SessionStore interface {
	Get(ctx context.Context, key string) (*Session, error)
	Put(ctx context.Context, key string, s *Session) error
	Delete(ctx context.Context, key string) error
}

// RedisStore はRedisをバックエンドにしたSessionStoreの実装です。
// セッションはJSONで "enroll:<key>" に格納されます。
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisStore はRedisStoreを生成します。
func NewRedisStore(rdb *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger}
}

func sessionKey(key string) string {
	return "enroll:" + key
}

// Get はセッションを取得します。存在しない場合は(nil, nil)です。
func (r *RedisStore) Get(ctx context.Context, key string) (*Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to retrieve enroll session", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		r.logger.Error("Failed to decode enroll session", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// Put はセッションをTTL付きで保存します。
func (r *RedisStore) Put(ctx context.Context, key string, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(key), data, sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to store enroll session", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete はセッションを破棄します。
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, sessionKey(key)).Err(); err != nil {
		r.logger.Error("Failed to delete enroll session", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
