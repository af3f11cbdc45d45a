package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, userID uint) (*NotificationHub, *httptest.Server) {
	gin.SetMode(gin.TestMode)
	hub := NewNotificationHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		utils.SetCurrentUser(c, userID, "customer")
		c.Next()
	}, hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestHubDeliversToUser(t *testing.T) {
	hub, srv := newHubServer(t, 7)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.PushToUser(8, map[string]string{"title": "not for you"})
	hub.PushToUser(7, map[string]string{"title": "hello"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "hello", msg.Data["title"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connected(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsAnonymous(t *testing.T) {
	hub, srv := newHubServer(t, 0)
	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.Connected(0))
}

func TestPushWithoutConnectionsDoesNotBlock(t *testing.T) {
	hub := NewNotificationHub()
	for i := 0; i < 1000; i++ {
		hub.PushToUser(1, i)
	}
}
