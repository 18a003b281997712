package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offline clients have no connection; only the send buffer is exercised.
func offlineClient(h *Hub, userID int64) *Client {
	return NewClient(userID, nil, h)
}

func TestHubFanOutPerUser(t *testing.T) {
	h := NewHub()
	a1, a2, b := offlineClient(h, 1), offlineClient(h, 1), offlineClient(h, 2)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)
	assert.Equal(t, 2, h.Connections(1))
	assert.Equal(t, 2, h.Online())

	h.Notify(1, "reward", map[string]int{"xpGained": 10})

	for _, c := range []*Client{a1, a2} {
		require.Len(t, c.Send, 1)
		var m Message
		require.NoError(t, json.Unmarshal(<-c.Send, &m))
		assert.Equal(t, "reward", m.Type)
		assert.Equal(t, map[string]any{"xpGained": float64(10)}, m.Payload)
	}
	assert.Empty(t, b.Send)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	c := offlineClient(h, 1)
	h.Register(c)

	for i := 0; i < sendBuffer+5; i++ {
		h.Notify(1, "reward", i)
	}
	assert.Len(t, c.Send, sendBuffer)
}

func TestHubUnregister(t *testing.T) {
	h := NewHub()
	c := offlineClient(h, 1)
	h.Register(c)

	c.close()
	c.close()
	assert.Zero(t, h.Connections(1))
	assert.Zero(t, h.Online())

	// notifying a user with no connections is a no-op
	h.Notify(1, "reward", nil)
}
