package service

import (
	"context"

	"plantcare/entities"
)

type SettingsInput struct {
	Location             entities.Location `json:"location"`
	OnboardingComplete   bool              `json:"onboarding_complete"`
	NotificationsEnabled bool              `json:"notifications_enabled"`
	NotificationTime     string            `json:"notification_time"`
}

type SettingsService interface {
	// Get returns the stored record, or unsaved defaults before onboarding.
	Get(ctx context.Context) (*entities.UserSettings, error)
	Put(ctx context.Context, in SettingsInput) (*entities.UserSettings, error)
	SetPermission(ctx context.Context, p entities.NotificationPermission) (*entities.UserSettings, error)
}
