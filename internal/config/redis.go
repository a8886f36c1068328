package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var Redis *redis.Client

// ConnectRedis opens the shared Redis client used for sessions, OTP codes and revoked tokens.
func ConnectRedis(env Env) *redis.Client {
	if Redis != nil {
		return Redis
	}
	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		zap.L().Fatal("failed to connect to Redis", zap.String("addr", env.RedisAddr), zap.Error(err))
	}

	Redis = client
	return Redis
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
		Redis = nil
	}
}
