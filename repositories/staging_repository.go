package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStagingRepository struct {
	redis *redis.Client
}

func NewRedisStagingRepository(redisClient *redis.Client) *RedisStagingRepository {
	return &RedisStagingRepository{redis: redisClient}
}

func stagingKey(pendingID uint, fileName string) string {
	return fmt.Sprintf("staging:%d/%s", pendingID, fileName)
}

func (r *RedisStagingRepository) Put(ctx context.Context, pendingID uint, fileName string, content []byte, expire time.Duration) error {
	return r.redis.Set(ctx, stagingKey(pendingID, fileName), content, expire).Err()
}

func (r *RedisStagingRepository) Get(ctx context.Context, pendingID uint, fileName string) ([]byte, error) {
	return r.redis.Get(ctx, stagingKey(pendingID, fileName)).Bytes()
}

func (r *RedisStagingRepository) Delete(ctx context.Context, pendingID uint, fileName string) error {
	return r.redis.Del(ctx, stagingKey(pendingID, fileName)).Err()
}
