package handlers

import (
	"io"
	"net/http"

	"github.com/campustransit/campus-bus-backend/internal/events"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// EventsHandler exposes the event bus and activity feed to dashboards
type EventsHandler struct {
	bus  *events.Bus
	feed *events.ActivityFeed
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(bus *events.Bus, feed *events.ActivityFeed) *EventsHandler {
	return &EventsHandler{bus: bus, feed: feed}
}

// GetActivity returns the recent activity feed, most recent first
// GET /api/v1/activity
func (h *EventsHandler) GetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activity": h.feed.Recent()})
}

// Stream delivers system updates to the client as server-sent events.
// Dashboards keep one stream open per view; the subscription ends when the
// client disconnects.
// GET /api/v1/events/stream?topic=<kind|*>
func (h *EventsHandler) Stream(c *gin.Context) {
	topicParam := c.DefaultQuery("topic", string(events.TopicAll))
	if topicParam != string(events.TopicAll) && !models.IsValidUpdateKind(topicParam) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "unknown topic: " + topicParam,
		})
		return
	}

	sub := h.bus.Subscribe(events.Topic(topicParam))
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(update.Kind), update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
