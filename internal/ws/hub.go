package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/goroutine"
	"github.com/gigzone/backend/internal/logger"
	"github.com/gigzone/backend/internal/models"
)

// Hub ведёт подписки WebSocket клиентов на беседы и рассылает им
// сообщения. Доставка best-effort: сообщение к этому моменту уже
// сохранено в БД.
type Hub struct {
	mu        sync.RWMutex
	rooms     map[uuid.UUID]map[*Client]struct{}
	subscribe chan subscription
	leave     chan subscription
	drop      chan *Client
	broadcast chan envelope
}

type subscription struct {
	client         *Client
	conversationID uuid.UUID
}

type envelope struct {
	conversationID uuid.UUID
	payload        []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[uuid.UUID]map[*Client]struct{}),
		subscribe: make(chan subscription),
		leave:     make(chan subscription),
		drop:      make(chan *Client),
		broadcast: make(chan envelope, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.subscribe:
			h.addSubscriber(sub)
		case sub := <-h.leave:
			h.removeSubscriber(sub)
		case client := <-h.drop:
			h.dropClient(client)
		case env := <-h.broadcast:
			h.send(env.conversationID, env.payload)
		}
	}
}

// Subscribe подписывает клиента на беседу. Проверка членства делается
// до вызова.
func (h *Hub) Subscribe(client *Client, conversationID uuid.UUID) {
	h.subscribe <- subscription{client: client, conversationID: conversationID}
}

// Unsubscribe снимает подписку клиента с беседы.
func (h *Hub) Unsubscribe(client *Client, conversationID uuid.UUID) {
	h.leave <- subscription{client: client, conversationID: conversationID}
}

// Drop убирает клиента из всех бесед.
func (h *Hub) Drop(client *Client) {
	h.drop <- client
}

// Publish рассылает сохранённое сообщение подписчикам беседы.
func (h *Hub) Publish(conversationID uuid.UUID, message *models.Message) {
	payload := map[string]any{
		"type": "message",
		"data": message,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.WithComponent("ws").Errorf("не удалось сериализовать сообщение: %v", err)
		return
	}

	h.broadcast <- envelope{conversationID: conversationID, payload: raw}
}

func (h *Hub) addSubscriber(sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[sub.conversationID]; !ok {
		h.rooms[sub.conversationID] = make(map[*Client]struct{})
	}
	h.rooms[sub.conversationID][sub.client] = struct{}{}
	sub.client.track(sub.conversationID)
}

func (h *Hub) removeSubscriber(sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detach(sub.client, sub.conversationID)
	sub.client.untrack(sub.conversationID)
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conversationID := range client.subscriptions() {
		h.detach(client, conversationID)
	}
	client.clear()
}

// detach вызывается под h.mu.
func (h *Hub) detach(client *Client, conversationID uuid.UUID) {
	if subscribers, ok := h.rooms[conversationID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}

func (h *Hub) send(conversationID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[conversationID] {
		select {
		case client.send <- payload:
		default:
			// Медленного клиента отключаем, закрытие асинхронно
			c := client
			goroutine.SafeGo(func() {
				c.Close()
			})
		}
	}
}
