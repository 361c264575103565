package ws

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gigzone/backend/internal/goroutine"
	"github.com/gigzone/backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SubscribeAuthorizer проверяет право пользователя на подписку на беседу.
type SubscribeAuthorizer func(ctx context.Context, conversationID, userID uuid.UUID) error

// clientCommand — входящая команда клиента.
type clientCommand struct {
	Action         string    `json:"action"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// Client представляет одно подключение WebSocket.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	userID    uuid.UUID
	authorize SubscribeAuthorizer
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	rooms map[uuid.UUID]struct{}
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, hub *Hub, userID uuid.UUID, authorize SubscribeAuthorizer) *Client {
	return &Client{
		conn:      conn,
		hub:       hub,
		userID:    userID,
		authorize: authorize,
		send:      make(chan []byte, 16),
		done:      make(chan struct{}),
		rooms:     make(map[uuid.UUID]struct{}),
	}
}

// Run запускает обработку входящих и исходящих сообщений.
// Отмена контекста закрывает соединение и прерывает заблокированное
// чтение.
func (c *Client) Run(ctx context.Context) {
	go c.writePumpSafe()
	goroutine.SafeGo(func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	})
	c.readPump(ctx)
}

// Close закрывает соединение и снимает все подписки. Повторные вызовы
// ничего не делают.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.Drop(c)
		c.conn.Close()
	})
}

// readPump принимает команды subscribe/unsubscribe. Подписка проходит
// только после проверки членства в беседе.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("ws").
				WithField("stack", string(debug.Stack())).
				Errorf("panic в readPump: %v", r)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(16 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				return
			}

			var cmd clientCommand
			if err := json.Unmarshal(raw, &cmd); err != nil {
				c.sendError("некорректная команда")
				continue
			}

			switch cmd.Action {
			case "subscribe":
				if err := c.authorize(ctx, cmd.ConversationID, c.userID); err != nil {
					c.sendError("подписка отклонена")
					continue
				}
				c.hub.Subscribe(c, cmd.ConversationID)
			case "unsubscribe":
				c.hub.Unsubscribe(c, cmd.ConversationID)
			default:
				c.sendError("неизвестная команда")
			}
		}
	}
}

func (c *Client) writePumpSafe() {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("ws").
				WithField("stack", string(debug.Stack())).
				Errorf("panic в writePump: %v", r)
			c.Close()
		}
	}()
	c.writePump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(text string) {
	raw, err := json.Marshal(map[string]any{
		"type": "error",
		"data": map[string]string{"message": text},
	})
	if err != nil {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

func (c *Client) track(conversationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[conversationID] = struct{}{}
}

func (c *Client) untrack(conversationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, conversationID)
}

func (c *Client) subscriptions() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}

func (c *Client) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = make(map[uuid.UUID]struct{})
}
