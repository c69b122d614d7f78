package serviceImp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/events"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/settings"
	"plantcare/pkg/settings/repository"
	"plantcare/pkg/settings/repositoryImp"
	"plantcare/pkg/settings/service"
)

func setup(t *testing.T, pub events.Publisher) (service.SettingsService, repository.SettingsRepository) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r := repositoryImp.New(db, pub)
	return NewSettingsService(r), r
}

func TestGetBeforeOnboardingReturnsDefaults(t *testing.T) {
	svc, r := setup(t, nil)
	st, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.OnboardingComplete || st.NotificationTime != DefaultNotificationTime || st.NotificationPermission != entities.PermissionDefault {
		t.Fatalf("defaults: %+v", st)
	}
	if _, err := r.Get(context.Background()); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("defaults must not be persisted: %v", err)
	}
}

func TestPutIsSingletonUpsert(t *testing.T) {
	hub := events.NewHub(logger.Nop())
	sub := hub.Subscribe(events.ChannelSettings)
	svc, r := setup(t, hub)
	ctx := context.Background()

	lat := 59.9
	first, err := svc.Put(ctx, service.SettingsInput{
		Location:           entities.Location{Mode: entities.LocationAuto, Country: " Norway ", City: "Oslo", Latitude: &lat},
		OnboardingComplete: true,
		NotificationTime:   "07:30",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first.ID != entities.SettingsID || first.Location.Label() != "Oslo, Norway" {
		t.Fatalf("first: %+v", first)
	}
	if err := r.MarkReminderSent(ctx, time.Now()); err != nil {
		t.Fatalf("mark: %v", err)
	}

	second, err := svc.Put(ctx, service.SettingsInput{
		Location:             entities.Location{Mode: entities.LocationManual, Country: "Chile", City: "ignored", Latitude: &lat},
		OnboardingComplete:   true,
		NotificationsEnabled: true,
	})
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if second.Location.City != "" || second.Location.Latitude != nil || second.Location.Label() != "Chile" {
		t.Fatalf("manual location keeps only the country: %+v", second.Location)
	}
	if second.LastNotificationSent == nil {
		t.Fatalf("settings update must not reset the reminder dedup")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if len(sub.Outbound) == 0 {
		t.Fatalf("settings writes should be published")
	}
}

func TestPutValidation(t *testing.T) {
	svc, _ := setup(t, nil)
	for _, in := range []service.SettingsInput{
		{NotificationTime: "7:30"},
		{NotificationTime: "25:00"},
		{Location: entities.Location{Mode: "gps"}},
	} {
		if _, err := svc.Put(context.Background(), in); !errors.Is(err, settings.ErrInvalid) {
			t.Fatalf("%+v: want invalid, got %v", in, err)
		}
	}
}

func TestSetPermissionBeforeOnboarding(t *testing.T) {
	svc, _ := setup(t, nil)
	st, err := svc.SetPermission(context.Background(), entities.PermissionGranted)
	if err != nil {
		t.Fatalf("permission: %v", err)
	}
	if st.NotificationPermission != entities.PermissionGranted || st.OnboardingComplete {
		t.Fatalf("unexpected: %+v", st)
	}
	if _, err := svc.SetPermission(context.Background(), "maybe"); !errors.Is(err, settings.ErrInvalid) {
		t.Fatalf("bad permission: %v", err)
	}
}
