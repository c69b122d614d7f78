// Package notify decides once per day whether a watering reminder is due and
// hands it to the registered notifiers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"plantcare/entities"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/schedule"
	"plantcare/pkg/settings"
)

const DefaultInterval = time.Minute

type SettingsStore interface {
	Get(ctx context.Context) (*entities.UserSettings, error)
	MarkReminderSent(ctx context.Context, at time.Time) error
}

type PlantLister interface {
	List(ctx context.Context) ([]entities.Plant, error)
}

type Scheduler struct {
	settings  SettingsStore
	plants    PlantLister
	notifiers []Notifier
	log       *logger.Logger
	now       func() time.Time
	interval  time.Duration

	// last dispatch seen by this process; covers a store that failed to record it
	mu       sync.Mutex
	lastSent *time.Time
}

func NewScheduler(st SettingsStore, plants PlantLister, log *logger.Logger, now func() time.Time, interval time.Duration, notifiers ...Notifier) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		settings:  st,
		plants:    plants,
		notifiers: notifiers,
		log:       log.With("component", "ReminderScheduler"),
		now:       now,
		interval:  interval,
	}
}

// Run checks immediately, then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("reminder scheduler started", "interval", s.interval.String())
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		if _, err := s.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("reminder check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return nil
		case <-t.C:
		}
	}
}

// Tick runs one check against freshly read state. It reports whether a
// notification was dispatched.
func (s *Scheduler) Tick(ctx context.Context) (bool, error) {
	st, err := s.settings.Get(ctx)
	if errors.Is(err, settings.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read settings: %w", err)
	}
	if last := s.remembered(); last != nil && (st.LastNotificationSent == nil || last.After(*st.LastNotificationSent)) {
		st.LastNotificationSent = last
	}
	now := s.now()
	if !ShouldSend(st, now) {
		return false, nil
	}

	plants, err := s.plants.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list plants: %w", err)
	}
	due := PlantsNeedingWater(plants, now)

	sent := false
	if len(due) > 0 {
		msg := ComposeMessage(due)
		for _, n := range s.notifiers {
			if err := n.Notify(ctx, msg); err != nil {
				s.log.Warn("notifier failed", "notifier", fmt.Sprintf("%T", n), "error", err)
				continue
			}
			sent = true
		}
	}

	// recorded even with nothing to say, so the rest of the day stays quiet
	s.remember(now)
	if err := s.settings.MarkReminderSent(ctx, now); err != nil {
		return sent, fmt.Errorf("record reminder: %w", err)
	}
	s.log.Debug("reminder check fired", "due", len(due), "sent", sent)
	return sent, nil
}

func (s *Scheduler) remember(at time.Time) {
	s.mu.Lock()
	s.lastSent = &at
	s.mu.Unlock()
}

func (s *Scheduler) remembered() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSent
}

// ShouldSend is the fire gate: enabled, permitted, past the reminder time,
// and nothing sent yet today. "HH:MM" strings compare correctly as text.
func ShouldSend(st *entities.UserSettings, now time.Time) bool {
	if st == nil || !st.NotificationsEnabled || st.NotificationPermission != entities.PermissionGranted {
		return false
	}
	if st.NotificationTime == "" || now.Format("15:04") < st.NotificationTime {
		return false
	}
	return st.LastNotificationSent == nil || !schedule.SameCalendarDay(*st.LastNotificationSent, now)
}

// PlantsNeedingWater returns the plants classified Urgent, never-watered included.
func PlantsNeedingWater(plants []entities.Plant, now time.Time) []entities.Plant {
	var out []entities.Plant
	for i := range plants {
		if schedule.Classify(&plants[i], now) == schedule.Urgent {
			out = append(out, plants[i])
		}
	}
	return out
}

const icon = "/icons/icon-192.png"

// ComposeMessage names one plant, lists two or three, and counts anything larger.
func ComposeMessage(plants []entities.Plant) Notification {
	names := make([]string, len(plants))
	ids := make([]string, len(plants))
	for i := range plants {
		names[i] = plants[i].DisplayName()
		ids[i] = plants[i].ID
	}
	var body string
	switch n := len(names); {
	case n == 1:
		body = names[0] + " needs watering today."
	case n <= 3:
		body = strings.Join(names[:n-1], ", ") + " and " + names[n-1] + " need watering today."
	default:
		body = fmt.Sprintf("%d plants need watering today.", n)
	}
	return Notification{Title: "Time to water your plants", Body: body, Icon: icon, PlantIDs: ids}
}
