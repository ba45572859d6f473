package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/canton09/aisales/internal/domain/entities"
)

const (
	fieldProvider = "provider"
	fieldAPIKey   = "deepseek_api_key"
)

// RedisPreferenceRepository stores preferences in a single Redis hash
type RedisPreferenceRepository struct {
	client *redis.Client
	key    string
}

// NewRedisPreferenceRepository creates a new Redis preference repository
func NewRedisPreferenceRepository(client *redis.Client, key string) *RedisPreferenceRepository {
	if key == "" {
		key = "aisales:preferences"
	}
	return &RedisPreferenceRepository{
		client: client,
		key:    key,
	}
}

// Load reads the hash. A missing key yields defaults.
func (r *RedisPreferenceRepository) Load(ctx context.Context) (*entities.Preferences, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := &entities.Preferences{
		Provider:       entities.Provider(fields[fieldProvider]),
		DeepSeekAPIKey: fields[fieldAPIKey],
	}
	prefs.Normalize()
	return prefs, nil
}

// Save overwrites both fields
func (r *RedisPreferenceRepository) Save(ctx context.Context, prefs *entities.Preferences) error {
	p := *prefs
	p.Normalize()

	if err := r.client.HSet(ctx, r.key,
		fieldProvider, string(p.Provider),
		fieldAPIKey, p.DeepSeekAPIKey,
	).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
