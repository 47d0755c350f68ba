package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campustransit/campus-bus-backend/internal/events"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEventsTest(t *testing.T) (*gin.Engine, *events.Bus, *events.ActivityFeed) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bus := events.NewBus(64, logger)
	feed := events.NewActivityFeed(bus, 50, logger)
	t.Cleanup(func() {
		feed.Stop()
		bus.Close()
	})

	handler := NewEventsHandler(bus, feed)

	router := gin.New()
	router.GET("/activity", handler.GetActivity)
	router.GET("/events/stream", handler.Stream)

	return router, bus, feed
}

func TestGetActivity(t *testing.T) {
	router, bus, feed := setupEventsTest(t)

	bus.Publish(models.NewBusCreated(models.Bus{ID: "b-1", PlateNumber: "CB-1234"}))

	require.Eventually(t, func() bool {
		return feed.Len() == 1
	}, time.Second, 5*time.Millisecond)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bus_created")
	assert.Contains(t, w.Body.String(), "CB-1234")
}

func TestStream_UnknownTopicRejected(t *testing.T) {
	router, _, _ := setupEventsTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/stream?topic=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// closeNotifyRecorder satisfies http.CloseNotifier, which gin's Stream
// requires of the response writer
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStream_DeliversPublishedUpdates(t *testing.T) {
	router, bus, _ := setupEventsTest(t)

	// Publish shortly after the stream opens, then shut the bus down so the
	// handler returns.
	go func() {
		time.Sleep(50 * time.Millisecond)
		bus.Publish(models.NewBookingCreated(models.Booking{ID: "bk-1", SeatNumber: "A1"}))
		time.Sleep(50 * time.Millisecond)
		bus.Close()
	}()

	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/stream?topic=booking_created", nil))

	body := w.Body.String()
	assert.Contains(t, body, "event:booking_created")
	assert.Contains(t, body, "bk-1")
}
