package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maintenance-tracker/internal/controllers"
	"maintenance-tracker/internal/events"
	"maintenance-tracker/internal/listeners"
	"maintenance-tracker/pkg/eventbus"
	appwebsocket "maintenance-tracker/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startLiveServer(t *testing.T) (*appwebsocket.Hub, *eventbus.Bus, string) {
	t.Helper()
	logger := zap.NewNop()
	hub := appwebsocket.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	bus := eventbus.New(logger)
	listeners.NewLiveFeedListener(hub, logger).Register(bus)

	e := echo.New()
	runLiveRouter(e.Group("/api"), controllers.NewLiveController(hub, logger))
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return hub, bus, "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events/ws"
}

func TestLiveFeedRejectsForeignOrigin(t *testing.T) {
	hub, _, url := startLiveServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://example.com"}})
	if conn != nil {
		conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Never(t, func() bool { return hub.ClientCount() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLiveFeedAcceptsLoopbackOrigin(t *testing.T) {
	hub, _, url := startLiveServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://localhost:3000"}})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestLiveFeedDeliversEquipmentChanges(t *testing.T) {
	hub, bus, url := startLiveServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(context.Background(), events.EquipmentChangedEvent{Reason: "status_changed", EquipmentIDs: []uint64{5}})
	bus.Wait()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type    string                       `json:"type"`
		Payload events.EquipmentChangedEvent `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, events.EquipmentChangedEventName, envelope.Type)
	assert.Equal(t, "status_changed", envelope.Payload.Reason)
	assert.Equal(t, []uint64{5}, envelope.Payload.EquipmentIDs)
}
