package repositories

import (
	"context"

	"github.com/canton09/aisales/internal/domain/entities"
)

// PreferenceRepository persists the provider preference and API key.
// Load returns default preferences when nothing has been saved yet.
type PreferenceRepository interface {
	Load(ctx context.Context) (*entities.Preferences, error)
	Save(ctx context.Context, prefs *entities.Preferences) error
}
