package rescache

import (
	"balloon-geo/internal/logger"
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisHash = "revgeo:country"

// 文档注释：Redis 哈希缓存
// 背景：单哈希内按格键 HSET/HGET，单键原子覆盖，多进程共享且无需整体重写。
// 约束：读错误按未命中处理并记录日志。
type Redis struct {
	rc   *redis.Client
	hash string
}

func NewRedis(rc *redis.Client, hash string) *Redis {
	if hash == "" {
		hash = DefaultRedisHash
	}
	return &Redis{rc: rc, hash: hash}
}

func (r *Redis) Backend() string { return "redis" }

func (r *Redis) Get(ctx context.Context, lat, lon float64) (string, bool) {
	k := Key(lat, lon)
	s, err := r.rc.HGet(ctx, r.hash, k).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("redis_cache_get_error", "key", k, "err", err)
		}
		return "", false
	}
	return s, true
}

func (r *Redis) Put(ctx context.Context, lat, lon float64, country string) error {
	return r.PutKey(ctx, Key(lat, lon), country)
}

func (r *Redis) PutKey(ctx context.Context, key, country string) error {
	return r.rc.HSet(ctx, r.hash, key, country).Err()
}
