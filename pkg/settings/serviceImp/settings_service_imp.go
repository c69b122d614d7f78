package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantcare/entities"
	"plantcare/pkg/settings"
	repo "plantcare/pkg/settings/repository"
	"plantcare/pkg/settings/service"
)

const DefaultNotificationTime = "09:00"

type settingsSvc struct{ r repo.SettingsRepository }

func NewSettingsService(r repo.SettingsRepository) service.SettingsService {
	return &settingsSvc{r: r}
}

func Defaults() *entities.UserSettings {
	return &entities.UserSettings{
		ID:                     entities.SettingsID,
		Location:               entities.Location{Mode: entities.LocationManual},
		NotificationTime:       DefaultNotificationTime,
		NotificationPermission: entities.PermissionDefault,
	}
}

func (s *settingsSvc) Get(ctx context.Context) (*entities.UserSettings, error) {
	cur, err := s.r.Get(ctx)
	if errors.Is(err, settings.ErrNotFound) {
		return Defaults(), nil
	}
	return cur, err
}

func (s *settingsSvc) Put(ctx context.Context, in service.SettingsInput) (*entities.UserSettings, error) {
	loc, err := normalizeLocation(in.Location)
	if err != nil {
		return nil, err
	}
	at := strings.TrimSpace(in.NotificationTime)
	if at == "" {
		at = DefaultNotificationTime
	}
	if _, err := time.Parse("15:04", at); err != nil || len(at) != 5 {
		return nil, fmt.Errorf("%w: notification_time must be HH:MM", settings.ErrInvalid)
	}

	next, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	next.Location = loc
	next.OnboardingComplete = in.OnboardingComplete
	next.NotificationsEnabled = in.NotificationsEnabled
	next.NotificationTime = at
	if err := s.r.Save(ctx, next); err != nil {
		return nil, err
	}
	return s.r.Get(ctx)
}

func (s *settingsSvc) SetPermission(ctx context.Context, p entities.NotificationPermission) (*entities.UserSettings, error) {
	switch p {
	case entities.PermissionGranted, entities.PermissionDenied, entities.PermissionDefault:
	default:
		return nil, fmt.Errorf("%w: permission must be granted, denied or default", settings.ErrInvalid)
	}
	err := s.r.SetPermission(ctx, p)
	if errors.Is(err, settings.ErrNotFound) {
		// permission can be asked for before onboarding saves the record
		next := Defaults()
		next.NotificationPermission = p
		err = s.r.Save(ctx, next)
	}
	if err != nil {
		return nil, err
	}
	return s.r.Get(ctx)
}

// manual locations carry only a country
func normalizeLocation(l entities.Location) (entities.Location, error) {
	l.Country = strings.TrimSpace(l.Country)
	l.City = strings.TrimSpace(l.City)
	switch l.Mode {
	case entities.LocationAuto:
	case entities.LocationManual, "":
		l.Mode = entities.LocationManual
		l.City, l.Latitude, l.Longitude = "", nil, nil
	default:
		return l, fmt.Errorf("%w: location mode must be auto or manual", settings.ErrInvalid)
	}
	return l, nil
}
