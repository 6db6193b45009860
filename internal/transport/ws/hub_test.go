package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case data, ok := <-ch:
		require.True(t, ok, "channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHubRoutesSessionMessages(t *testing.T) {
	h := NewHub()
	defer h.Close()

	a := &Connection{SessionID: "s1", Send: make(chan []byte, 4), Hub: h}
	b := &Connection{SessionID: "s2", Send: make(chan []byte, 4), Hub: h}
	h.Register(a)
	h.Register(b)

	h.BroadcastToSession("s1", "view_updated", map[string]string{"themeId": "personal"})

	msg := receive(t, a.Send)
	assert.Equal(t, MessageType("view_updated"), msg.Type)
	assert.JSONEq(t, `{"themeId":"personal"}`, string(msg.Payload))

	select {
	case <-b.Send:
		t.Fatal("s2 must not receive s1's messages")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRoutesHostMessages(t *testing.T) {
	h := NewHub()
	defer h.Close()

	host1 := &Connection{CatalogID: "c1", IsHost: true, Send: make(chan []byte, 4), Hub: h}
	host2 := &Connection{CatalogID: "c1", IsHost: true, Send: make(chan []byte, 4), Hub: h}
	respondent := &Connection{SessionID: "s1", CatalogID: "c1", Send: make(chan []byte, 4), Hub: h}
	h.Register(host1)
	h.Register(host2)
	h.Register(respondent)

	h.BroadcastToHost("c1", "progress_update", []int{1})

	assert.Equal(t, MessageType("progress_update"), receive(t, host1.Send).Type)
	assert.Equal(t, MessageType("progress_update"), receive(t, host2.Send).Type)
	select {
	case <-respondent.Send:
		t.Fatal("respondents do not receive host messages")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubReplacesSessionConnection(t *testing.T) {
	h := NewHub()
	defer h.Close()

	old := &Connection{SessionID: "s1", Send: make(chan []byte, 4), Hub: h}
	h.Register(old)
	newer := &Connection{SessionID: "s1", Send: make(chan []byte, 4), Hub: h}
	h.Register(newer)

	select {
	case _, ok := <-old.Send:
		assert.False(t, ok, "old connection is closed")
	case <-time.After(2 * time.Second):
		t.Fatal("old connection not closed")
	}

	// Unregistering the replaced connection leaves the newer one in place.
	h.Unregister(old)
	h.BroadcastToSession("s1", "notification", "x")
	assert.Equal(t, MessageType("notification"), receive(t, newer.Send).Type)

	h.Unregister(newer)
	select {
	case _, ok := <-newer.Send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("connection not closed on unregister")
	}
}

func TestHubClosedDropsBroadcasts(t *testing.T) {
	h := NewHub()
	h.Close()
	h.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			h.BroadcastToSession("s1", "view_updated", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a closed hub")
	}
}
