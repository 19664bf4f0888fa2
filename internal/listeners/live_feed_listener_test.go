package listeners

import (
	"context"
	"sync"
	"testing"

	"maintenance-tracker/internal/events"
	"maintenance-tracker/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingFeed struct {
	mu    sync.Mutex
	types []string
	last  interface{}
}

func (f *recordingFeed) Broadcast(messageType string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, messageType)
	f.last = payload
	return nil
}

func TestLiveFeedListenerForwardsEvents(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	feed := &recordingFeed{}
	NewLiveFeedListener(feed, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.EquipmentChangedEvent{Reason: "status_changed", EquipmentIDs: []uint64{7}})
	bus.Wait()
	bus.Publish(context.Background(), events.DepartmentChangedEvent{DepartmentID: 2, Action: "deleted"})
	bus.Wait()

	require.Len(t, feed.types, 2)
	assert.Equal(t, []string{events.EquipmentChangedEventName, events.DepartmentChangedEventName}, feed.types)
	assert.Equal(t, events.DepartmentChangedEvent{DepartmentID: 2, Action: "deleted"}, feed.last)
}
