package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func allowAll(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// runClientServer поднимает сервер, который апгрейдит соединение и
// запускает клиента с переданным контекстом. Канал done закрывается,
// когда Run завершается.
func runClientServer(t *testing.T, ctx context.Context, hub *Hub) (*websocket.Conn, chan struct{}) {
	t.Helper()
	done := make(chan struct{})
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, uuid.New(), allowAll)
		client.Run(ctx)
		close(done)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, done
}

func TestClient_RunStopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	_, done := runClientServer(t, ctx, hub)

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}

func TestClient_RunStopsOnPeerDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn, done := runClientServer(t, context.Background(), hub)
	conn.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run не завершился после разрыва соединения")
	}
}
