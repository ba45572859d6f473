package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/infrastructure/cache"
)

const memoryPreferencesKey = "preferences"

// MemoryPreferenceRepository keeps preferences for the lifetime of the process
type MemoryPreferenceRepository struct {
	store *cache.MemoryStore
}

// NewMemoryPreferenceRepository creates a new in-memory preference repository
func NewMemoryPreferenceRepository(store *cache.MemoryStore) *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{store: store}
}

// Load returns the stored preferences or defaults
func (r *MemoryPreferenceRepository) Load(ctx context.Context) (*entities.Preferences, error) {
	raw, ok := r.store.Get(memoryPreferencesKey)
	if !ok {
		return entities.NewPreferences(), nil
	}

	prefs := entities.NewPreferences()
	if err := json.Unmarshal([]byte(raw), prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	prefs.Normalize()
	return prefs, nil
}

// Save replaces the stored preferences
func (r *MemoryPreferenceRepository) Save(ctx context.Context, prefs *entities.Preferences) error {
	p := *prefs
	p.Normalize()

	data, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	r.store.Set(memoryPreferencesKey, string(data), 0)
	return nil
}
