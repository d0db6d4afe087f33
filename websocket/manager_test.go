package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog/models"
	"blog/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuthenticator struct {
	identity services.Identity
}

func (s stubAuthenticator) Authenticate(token string) (services.Identity, error) {
	if token != "good" {
		return services.Identity{}, errors.New("bad token")
	}
	return s.identity, nil
}

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readEvent(t *testing.T, conn *websocket.Conn) event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestManagerBroadcast(t *testing.T) {
	m := NewManager()
	go m.Start()
	defer m.Stop()

	user := services.Identity{ID: primitive.NewObjectID()}
	srv := httptest.NewServer(WebSocketHandler(m, stubAuthenticator{identity: user}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=bad", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()

	hello := readEvent(t, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.Contains(t, string(hello.Payload), user.ID.Hex())

	assert.Eventually(t, func() bool { return m.GetConnectedUsers() == 1 }, time.Second, 10*time.Millisecond)

	postID := primitive.NewObjectID()
	m.PostDeleted(postID)
	ev := readEvent(t, conn)
	assert.Equal(t, "post_deleted", ev.Type)
	assert.JSONEq(t, `{"postId":"`+postID.Hex()+`"}`, string(ev.Payload))

	m.PostLiked(&models.Post{ID: postID, Likes: []primitive.ObjectID{user.ID}}, user.ID, true)
	ev = readEvent(t, conn)
	assert.Equal(t, "post_liked", ev.Type)
	assert.Contains(t, string(ev.Payload), `"liked":true`)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readEvent(t, conn).Type)
}

func TestManagerStopDisconnectsClients(t *testing.T) {
	m := NewManager()
	go m.Start()

	srv := httptest.NewServer(WebSocketHandler(m, stubAuthenticator{identity: services.Identity{ID: primitive.NewObjectID()}}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn)
	assert.Eventually(t, func() bool { return m.GetConnectedUsers() == 1 }, time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestPublishDoesNotBlock(t *testing.T) {
	m := NewManager()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			m.PostDeleted(primitive.NewObjectID())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a running hub")
	}
}
