package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopsphere/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartRepository keeps the cart as a JSON document under one key.
type RedisCartRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisClient parses url ("redis://host:port/db") and checks the
// connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisCartRepository creates a repository for sessionKey. A ttl of zero
// keeps the cart forever.
func NewRedisCartRepository(client *redis.Client, sessionKey string, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		key:    "cart:" + sessionKey,
		ttl:    ttl,
	}
}

// Save writes the cart document and refreshes its expiry.
func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", r.key, err)
	}
	return nil
}

// Load reads the cart document. A missing key yields an empty cart.
func (r *RedisCartRepository) Load(ctx context.Context) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", r.key, err)
	}

	cart := models.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", r.key, err)
	}
	return cart, nil
}
