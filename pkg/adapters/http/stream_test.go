package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")
	_, cancelOther := sm.Subscribe("s2")
	defer cancelOther()
	assert.Equal(t, 1, sm.Subscribers("s1"))

	hooks := sm.Hooks()
	hooks.Fire(context.Background(), &domain.Event{Type: domain.EventPairMatch, SessionID: "s1", Indices: []int{2, 10}})

	msg := <-ch
	var ev domain.Event
	require.NoError(t, json.Unmarshal([]byte(msg), &ev))
	assert.Equal(t, domain.EventPairMatch, ev.Type)
	assert.Equal(t, []int{2, 10}, ev.Indices)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, sm.Subscribers("s1"))

	sm.Broadcast("s1", "nobody listening")
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")
	defer cancel()

	for i := 0; i < 20; i++ {
		sm.Broadcast("s1", "msg")
	}
	assert.Len(t, ch, cap(ch))
}
