package listeners

import (
	"context"

	"maintenance-tracker/internal/events"
	"maintenance-tracker/pkg/eventbus"

	"go.uber.org/zap"
)

// Broadcaster - лента событий для подключенных клиентов (websocket-хаб).
type Broadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// LiveFeedListener пересылает изменения оборудования и отделов в ленту,
// чтобы открытые дашборды обновлялись без опроса.
type LiveFeedListener struct {
	feed   Broadcaster
	logger *zap.Logger
}

func NewLiveFeedListener(feed Broadcaster, logger *zap.Logger) *LiveFeedListener {
	return &LiveFeedListener{feed: feed, logger: logger}
}

func (l *LiveFeedListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentChangedEventName, l.Handle)
	bus.Subscribe(events.DepartmentChangedEventName, l.Handle)
}

func (l *LiveFeedListener) Handle(_ context.Context, event eventbus.Event) error {
	l.logger.Debug("Событие в ленту", zap.String("event", event.Name()))
	return l.feed.Broadcast(event.Name(), event)
}
