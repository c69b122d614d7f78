package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantcare/entities"
	"plantcare/pkg/events"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/settings"
)

type memSettings struct {
	st    *entities.UserSettings
	marks int
}

func (m *memSettings) Get(context.Context) (*entities.UserSettings, error) {
	if m.st == nil {
		return nil, settings.ErrNotFound
	}
	cp := *m.st
	return &cp, nil
}

func (m *memSettings) MarkReminderSent(_ context.Context, at time.Time) error {
	m.marks++
	m.st.LastNotificationSent = &at
	return nil
}

type memPlants []entities.Plant

func (m memPlants) List(context.Context) ([]entities.Plant, error) { return m, nil }

type recorder struct{ got []Notification }

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.got = append(r.got, n)
	return nil
}

func enabled(at string) *entities.UserSettings {
	return &entities.UserSettings{
		ID:                     entities.SettingsID,
		NotificationsEnabled:   true,
		NotificationTime:       at,
		NotificationPermission: entities.PermissionGranted,
	}
}

func ago(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func TestSchedulerSendsOncePerDay(t *testing.T) {
	start := time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)
	now := start
	st := &memSettings{st: enabled("09:00")}
	plants := memPlants{
		{ID: "a", Type: entities.PlantFern, Nickname: "Thirsty", LastWatered: ago(start, 9)},
		{ID: "b", Type: entities.PlantPalm, Nickname: "Fine", LastWatered: ago(start, 1)},
	}
	rec := &recorder{}
	s := NewScheduler(st, plants, logger.Nop(), func() time.Time { return now }, time.Minute, rec)

	for i := 0; i < 60; i++ {
		if _, err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		now = now.Add(time.Minute)
	}
	if len(rec.got) != 1 || st.marks != 1 {
		t.Fatalf("notifications=%d marks=%d", len(rec.got), st.marks)
	}
	if rec.got[0].Body != "Thirsty needs watering today." || rec.got[0].PlantIDs[0] != "a" {
		t.Fatalf("message: %+v", rec.got[0])
	}

	now = start.AddDate(0, 0, 1).Add(time.Hour)
	if sent, _ := s.Tick(context.Background()); !sent {
		t.Fatalf("next day should send again")
	}
}

func TestSchedulerRecordsEvenWhenNothingIsDue(t *testing.T) {
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	st := &memSettings{st: enabled("09:00")}
	rec := &recorder{}
	s := NewScheduler(st, memPlants{{ID: "ok", Type: entities.PlantPalm, LastWatered: ago(now, 2)}}, logger.Nop(),
		func() time.Time { return now }, 0, rec)

	sent, err := s.Tick(context.Background())
	if err != nil || sent {
		t.Fatalf("sent=%v err=%v", sent, err)
	}
	if st.marks != 1 || len(rec.got) != 0 {
		t.Fatalf("marks=%d notifications=%d", st.marks, len(rec.got))
	}
	_, _ = s.Tick(context.Background())
	if st.marks != 1 {
		t.Fatalf("second check should be gated, marks=%d", st.marks)
	}
}

func TestSchedulerWithoutSettingsIsIdle(t *testing.T) {
	s := NewScheduler(&memSettings{}, memPlants{}, logger.Nop(), nil, 0)
	if sent, err := s.Tick(context.Background()); sent || err != nil {
		t.Fatalf("sent=%v err=%v", sent, err)
	}
}

func TestShouldSend(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 5, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	earlier := now.Add(-time.Hour)

	cases := []struct {
		name string
		mut  func(*entities.UserSettings)
		want bool
	}{
		{"all conditions met", func(*entities.UserSettings) {}, true},
		{"disabled", func(s *entities.UserSettings) { s.NotificationsEnabled = false }, false},
		{"permission default", func(s *entities.UserSettings) { s.NotificationPermission = entities.PermissionDefault }, false},
		{"permission denied", func(s *entities.UserSettings) { s.NotificationPermission = entities.PermissionDenied }, false},
		{"before reminder time", func(s *entities.UserSettings) { s.NotificationTime = "09:06" }, false},
		{"exactly reminder time", func(s *entities.UserSettings) { s.NotificationTime = "09:05" }, true},
		{"sent yesterday", func(s *entities.UserSettings) { s.LastNotificationSent = &yesterday }, true},
		{"sent today", func(s *entities.UserSettings) { s.LastNotificationSent = &earlier }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := enabled("09:00")
			tc.mut(st)
			if got := ShouldSend(st, now); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
	if ShouldSend(nil, now) {
		t.Fatalf("nil settings")
	}
}

func TestPlantsNeedingWaterIsUrgentOnly(t *testing.T) {
	now := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	got := PlantsNeedingWater([]entities.Plant{
		{ID: "never"},
		{ID: "urgent", LastWatered: ago(now, 8)},
		{ID: "warning", LastWatered: ago(now, 6)},
		{ID: "ok", LastWatered: ago(now, 3)},
	}, now)
	if len(got) != 2 || got[0].ID != "never" || got[1].ID != "urgent" {
		t.Fatalf("got %+v", got)
	}
}

func TestComposeMessage(t *testing.T) {
	p := func(name string) entities.Plant { return entities.Plant{Nickname: name} }
	cases := []struct {
		plants []entities.Plant
		want   string
	}{
		{[]entities.Plant{p("Fern")}, "Fern needs watering today."},
		{[]entities.Plant{p("Fern"), p("Cactus")}, "Fern and Cactus need watering today."},
		{[]entities.Plant{p("Fern"), p("Cactus"), p("Palm")}, "Fern, Cactus and Palm need watering today."},
		{[]entities.Plant{p("a"), p("b"), p("c"), p("d")}, "4 plants need watering today."},
	}
	for _, tc := range cases {
		if got := ComposeMessage(tc.plants).Body; got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}

func TestHubNotifierPublishesReminder(t *testing.T) {
	hub := events.NewHub(logger.Nop())
	sub := hub.Subscribe(events.ChannelReminders)
	_ = NewHubNotifier(hub).Notify(context.Background(), Notification{Title: "t", Body: "b"})
	msg := <-sub.Outbound
	if n, ok := msg.Data.(Notification); !ok || n.Body != "b" || msg.Event != events.EventNotify {
		t.Fatalf("msg: %+v", msg)
	}
}

type unrecordedSettings struct{ memSettings }

func (u *unrecordedSettings) MarkReminderSent(context.Context, time.Time) error {
	u.marks++
	return errors.New("database is locked")
}

func TestSchedulerDoesNotRepeatWhenRecordFails(t *testing.T) {
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	now := start
	st := &unrecordedSettings{memSettings{st: enabled("09:00")}}
	plants := memPlants{{ID: "a", Type: entities.PlantFern, Nickname: "Thirsty"}}
	rec := &recorder{}
	s := NewScheduler(st, plants, logger.Nop(), func() time.Time { return now }, time.Minute, rec)

	if sent, err := s.Tick(context.Background()); !sent || err == nil {
		t.Fatalf("first tick: sent=%v err=%v", sent, err)
	}
	for i := 0; i < 30; i++ {
		now = now.Add(time.Minute)
		if sent, err := s.Tick(context.Background()); sent || err != nil {
			t.Fatalf("tick %d: sent=%v err=%v", i, sent, err)
		}
	}
	if len(rec.got) != 1 || st.marks != 1 {
		t.Fatalf("notifications=%d marks=%d", len(rec.got), st.marks)
	}

	// the next day fires again
	now = start.AddDate(0, 0, 1)
	if sent, _ := s.Tick(context.Background()); !sent || len(rec.got) != 2 {
		t.Fatalf("next day: sent=%v notifications=%d", sent, len(rec.got))
	}
}
