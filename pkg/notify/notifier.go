package notify

import (
	"context"

	"plantcare/pkg/events"
	"plantcare/pkg/platform/logger"
)

type Notification struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Icon     string   `json:"icon"`
	PlantIDs []string `json:"plant_ids"`
}

// Notifier shows a notification. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// HubNotifier pushes reminders to connected browsers over the reminders channel.
type HubNotifier struct{ pub events.Publisher }

func NewHubNotifier(pub events.Publisher) *HubNotifier { return &HubNotifier{pub: pub} }

func (h *HubNotifier) Notify(_ context.Context, n Notification) error {
	events.Publish(h.pub, events.Message{Channel: events.ChannelReminders, Event: events.EventNotify, Data: n})
	return nil
}

type LogNotifier struct{ log *logger.Logger }

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "Reminder")}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.log.Info(n.Title, "body", n.Body, "plants", len(n.PlantIDs))
	return nil
}
