// Package events is the live-query feed: every committed write is published here
// and fanned out to subscribers (the SSE endpoint, the reminder notifier).
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"plantcare/pkg/platform/logger"
)

type Channel string

const (
	ChannelPlants       Channel = "plants"
	ChannelWateringLogs Channel = "watering_logs"
	ChannelSettings     Channel = "settings"
	ChannelReminders    Channel = "reminders"
)

var AllChannels = []Channel{ChannelPlants, ChannelWateringLogs, ChannelSettings, ChannelReminders}

type Event string

const (
	EventPut    Event = "put"
	EventDelete Event = "delete"
	EventNotify Event = "notify"
)

type Message struct {
	Channel Channel `json:"channel"`
	Event   Event   `json:"event"`
	ID      string  `json:"id,omitempty"`
	Data    any     `json:"data,omitempty"`
}

// Publisher is what writers depend on.
type Publisher interface {
	Publish(msg Message)
}

type Subscriber struct {
	ID       uuid.UUID
	channels map[Channel]bool
	Outbound chan Message
	done     chan struct{}
	once     sync.Once
}

type Hub struct {
	mu          sync.RWMutex
	log         *logger.Logger
	subscribers map[*Subscriber]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:         log.With("component", "EventHub"),
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers for the given channels, or all channels when none are given.
func (h *Hub) Subscribe(channels ...Channel) *Subscriber {
	if len(channels) == 0 {
		channels = AllChannels
	}
	s := &Subscriber{
		ID:       uuid.New(),
		channels: make(map[Channel]bool, len(channels)),
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
	for _, c := range channels {
		s.channels[c] = true
	}

	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("subscriber added", "subscriber_id", s.ID, "channels", channels)
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

// Publish never blocks; a subscriber with a full buffer misses the message.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers {
		if !s.channels[msg.Channel] {
			continue
		}
		select {
		case s.Outbound <- msg:
		default:
			h.log.Warn("dropping event; subscriber buffer full", "subscriber_id", s.ID, "channel", msg.Channel)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Stream writes messages to w as server-sent events until the request ends.
func (h *Hub) Stream(w http.ResponseWriter, r *http.Request, s *Subscriber) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-s.Outbound:
			b, err := json.Marshal(msg)
			if err != nil {
				h.log.Warn("marshal event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Channel, b)
			flusher.Flush()
		}
	}
}

// Publish is a nil-safe helper for optional publishers.
func Publish(p Publisher, msg Message) {
	if p != nil {
		p.Publish(msg)
	}
}
