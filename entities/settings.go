package entities

import "time"

// SettingsID keys the one settings record that ever exists.
const SettingsID = "user-settings"

type LocationMode string

const (
	LocationAuto   LocationMode = "auto"
	LocationManual LocationMode = "manual"
)

// Location is "auto" (country, optional city and coordinates) or "manual" (country only).
type Location struct {
	Mode      LocationMode `json:"mode"`
	Country   string       `json:"country"`
	City      string       `json:"city,omitempty"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
}

// Label renders "City, Country" or just the country.
func (l Location) Label() string {
	if l.City != "" {
		return l.City + ", " + l.Country
	}
	return l.Country
}

type NotificationPermission string

const (
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
	PermissionDefault NotificationPermission = "default"
)

type UserSettings struct {
	ID                     string                 `gorm:"primaryKey" json:"id"`
	Location               Location               `gorm:"serializer:json" json:"location"`
	OnboardingComplete     bool                   `json:"onboarding_complete"`
	NotificationsEnabled   bool                   `json:"notifications_enabled"`
	NotificationTime       string                 `json:"notification_time"` // HH:MM
	NotificationPermission NotificationPermission `json:"notification_permission"`
	LastNotificationSent   *time.Time             `json:"last_notification_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
