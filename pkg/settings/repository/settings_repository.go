package repository

import (
	"context"
	"time"

	"plantcare/entities"
)

// SettingsRepository stores the single record keyed by entities.SettingsID.
type SettingsRepository interface {
	Get(ctx context.Context) (*entities.UserSettings, error)
	Save(ctx context.Context, s *entities.UserSettings) error
	SetPermission(ctx context.Context, p entities.NotificationPermission) error
	MarkReminderSent(ctx context.Context, at time.Time) error
}
