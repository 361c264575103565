package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gigzone/backend/internal/service"
	"github.com/gigzone/backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub           *ws.Hub
	tokenManager  *service.TokenManager
	conversations *service.ConversationService
	upgrader      websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. Апгрейд разрешён только с
// Origin из списка CORS.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, conversations *service.ConversationService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:           hub,
		tokenManager:  tokens,
		conversations: conversations,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker пропускает запросы с допустимым Origin. Запросы без
// заголовка Origin приходят от небраузерных клиентов и пропускаются.
func originChecker(allowed []string) func(*http.Request) bool {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origins[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := origins[origin]
		return ok
	}
}

// TokenManager возвращает менеджер токенов (используется в middleware).
func (h *WSHandler) TokenManager() *service.TokenManager {
	return h.tokenManager
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access токен обязателен"})
		return
	}

	userID, _, err := h.tokenManager.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "невалидный access токен"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(conn, h.hub, userID, h.conversations.CanSubscribe)

	client.Run(c.Request.Context())
}
