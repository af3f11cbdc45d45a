package ws

import (
	"net/http"
	"sync"
	"time"

	"marketplace/pkg/logger"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NotificationHub keeps the live websocket connections of each user and
// delivers notifications to all of them.
type NotificationHub struct {
	clients    map[uint]map[*websocket.Conn]bool // userID -> connections
	broadcast  chan Delivery
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
}

type Subscription struct {
	Conn   *websocket.Conn
	UserID uint
}

type Delivery struct {
	UserID  uint
	Payload any
}

// Message is the frame written to clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan Delivery, 256),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
	}
}

func (h *NotificationHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.UserID] == nil {
				h.clients[sub.UserID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.UserID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			h.drop(sub.UserID, sub.Conn)
			h.mu.Unlock()

		case d := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[d.UserID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(Message{Type: "notification", Data: d.Payload}); err != nil {
					logger.Default().Warnf("ws write to user %d: %v", d.UserID, err)
					h.drop(d.UserID, conn)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for userID, conns := range h.clients {
				for conn := range conns {
					h.drop(userID, conn)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *NotificationHub) Stop() {
	close(h.done)
}

// drop must be called with mu held.
func (h *NotificationHub) drop(userID uint, conn *websocket.Conn) {
	if _, ok := h.clients[userID][conn]; !ok {
		return
	}
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	conn.Close()
}

// PushToUser queues payload for the user's open connections. When the queue
// is full the delivery is dropped; the notification stays in the list.
func (h *NotificationHub) PushToUser(userID uint, payload any) {
	select {
	case h.broadcast <- Delivery{UserID: userID, Payload: payload}:
	default:
		logger.Default().Warnf("ws queue full, dropping live notification for user %d", userID)
	}
}

// Connected reports how many connections the user has open.
func (h *NotificationHub) Connected(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws/notifications. The user comes from the JWT
// put on the context by WSAuthMiddleware.
func (h *NotificationHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Default().Error(err, "ws upgrade failed")
		return
	}

	sub := Subscription{Conn: conn, UserID: userID}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}
	go h.keepAlive(sub)
}

// keepAlive reads until the client goes away. Clients never send anything
// meaningful; reading is what surfaces the close.
func (h *NotificationHub) keepAlive(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()

	_ = sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		return sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sub.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Default().Warnf("ws read from user %d: %v", sub.UserID, err)
			}
			return
		}
	}
}
