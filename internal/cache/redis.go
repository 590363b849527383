package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoriesKey = "catalog:categories"
	categoriesTTL = 5 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unreachable every helper degrades to a miss.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCachedCategories returns the cached category list if available
func GetCachedCategories(ctx context.Context) ([]string, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		return nil, false
	}
	var categories []string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false
	}
	return categories, true
}

// CacheCategories stores the category list
func CacheCategories(ctx context.Context, categories []string) {
	if client == nil {
		return
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return
	}
	client.Set(ctx, categoriesKey, data, categoriesTTL)
}

// InvalidateCategories drops the cached category list. Called on every
// product write since writes can introduce or remove a category.
func InvalidateCategories(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, categoriesKey)
}
