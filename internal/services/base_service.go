package services

import (
	"context"
	"time"

	"maintenance-tracker/pkg/eventbus"
)

// EventPublisher - то, куда сервисы отправляют доменные события после коммита.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// Clock - источник текущего времени; в тестах подменяется.
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
