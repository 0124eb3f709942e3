package services

import (
	"context"

	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

// SettingsService reads and writes learner preferences
type SettingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, settings models.Settings) (models.Settings, error)
}

type settingsService struct {
	kv repository.KVStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(kv repository.KVStore) SettingsService {
	return &settingsService{kv: kv}
}

func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting settings")

	settings := models.DefaultSettings()
	if _, err := load(ctx, s.kv, repository.KeySettings, &settings); err != nil {
		log.Warn("failed to read settings, using defaults: %v", err)
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// Update stores settings. On failure the previously stored settings are
// returned so the caller can revert its optimistic toggle.
func (s *settingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating settings: sound=%t music=%t", settings.SoundEnabled, settings.MusicEnabled)

	if err := save(ctx, s.kv, repository.KeySettings, settings); err != nil {
		log.Error("failed to save settings: %v", err)
		prev, _ := s.Get(ctx)
		return prev, err
	}
	return settings, nil
}
