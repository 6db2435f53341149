package rdx

import (
	"os"
	"time"

	"glowdesk/globals"

	"github.com/redis/go-redis/v9"
)

var Conn = newClient()

func newClient() *redis.Client {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// Cache keys invalidated by the mq worker.
const (
	KeyActiveServices = "cache:services:active"
	KeyReviewStats    = "cache:reviews:stats:" // + serviceid ("all" when unfiltered)
)

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxDel(keys ...string) error {
	return Conn.Del(globals.Ctx, keys...).Err()
}

// RdxDelPrefix removes every key under the given prefix.
func RdxDelPrefix(prefix string) error {
	keys, err := Conn.Keys(globals.Ctx, prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return err
	}
	return Conn.Del(globals.Ctx, keys...).Err()
}
