package controllerImp

import (
	"strings"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/events"
)

type EventsCtrl struct{ hub *events.Hub }

func New(hub *events.Hub) *EventsCtrl { return &EventsCtrl{hub: hub} }

// Stream serves GET /api/events?channels=plants,settings
func (h *EventsCtrl) Stream(c echo.Context) error {
	var chans []events.Channel
	for _, s := range strings.Split(c.QueryParam("channels"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			chans = append(chans, events.Channel(s))
		}
	}
	sub := h.hub.Subscribe(chans...)
	defer h.hub.Unsubscribe(sub)

	h.hub.Stream(c.Response(), c.Request(), sub)
	return nil
}
