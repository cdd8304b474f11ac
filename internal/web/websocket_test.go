package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/justinabrahms/cez/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveServer struct {
	srv    *httptest.Server
	svc    *Service
	hub    *Hub
	cancel context.CancelFunc
}

func newLiveServer(t *testing.T) *liveServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	svc := NewService(session.NewManager(0, 0), &fakeSearcher{}, hub, testConfig())
	srv := httptest.NewServer(NewRouter(svc, ""))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &liveServer{srv: srv, svc: svc, hub: hub, cancel: cancel}
}

func (l *liveServer) post(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(l.srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (l *liveServer) dial(t *testing.T, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(l.srv.URL, "http") + "/ws?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) GameUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var update GameUpdate
	require.NoError(t, conn.ReadJSON(&update))
	return update
}

func TestWebSocketBroadcastsMoves(t *testing.T) {
	live := newLiveServer(t)
	sess, err := live.svc.sessions.Create("")
	require.NoError(t, err)

	conn := live.dial(t, sess.ID)
	state := readUpdate(t, conn)
	assert.Equal(t, "state", state.Type)
	assert.Equal(t, sess.ID, state.GameID)

	assert.Eventually(t, func() bool { return live.hub.Watchers(sess.ID) == 1 }, time.Second, 10*time.Millisecond)

	resp := live.post(t, "/api/games/"+sess.ID+"/moves", map[string]string{"from": "e2", "to": "e4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := readUpdate(t, conn)
	assert.Equal(t, UpdateMove, update.Type)
	data, ok := update.Data.(map[string]interface{})
	require.True(t, ok)
	move := data["move"].(map[string]interface{})
	assert.Equal(t, "e4", move["san"])
	assert.Equal(t, "e2>4", move["notation"])

	resp = live.post(t, "/api/games/"+sess.ID+"/restart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, UpdateRestart, readUpdate(t, conn).Type)
}

func TestWebSocketAnnouncesGameEnd(t *testing.T) {
	live := newLiveServer(t)
	sess, err := live.svc.sessions.Create("")
	require.NoError(t, err)

	conn := live.dial(t, sess.ID)
	readUpdate(t, conn)

	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		resp := live.post(t, "/api/games/"+sess.ID+"/moves", map[string]string{"from": mv[0], "to": mv[1]})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	for i := 0; i < 4; i++ {
		assert.Equal(t, UpdateMove, readUpdate(t, conn).Type)
	}
	end := readUpdate(t, conn)
	assert.Equal(t, UpdateGameEnd, end.Type)
	data := end.Data.(map[string]interface{})
	assert.Equal(t, "0-1", data["result"])
	assert.Equal(t, "black", data["winnerSide"])
}

func TestWebSocketAnswersApplicationPing(t *testing.T) {
	live := newLiveServer(t)
	sess, err := live.svc.sessions.Create("")
	require.NoError(t, err)

	conn := live.dial(t, sess.ID)
	readUpdate(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg["type"])
}

func TestWebSocketRequiresExistingGame(t *testing.T) {
	live := newLiveServer(t)
	base := "ws" + strings.TrimPrefix(live.srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"?gameId=missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketClosedOnDeleteAndShutdown(t *testing.T) {
	live := newLiveServer(t)
	sess, err := live.svc.sessions.Create("")
	require.NoError(t, err)

	conn := live.dial(t, sess.ID)
	readUpdate(t, conn)
	assert.Eventually(t, func() bool { return live.hub.Watchers(sess.ID) == 1 }, time.Second, 10*time.Millisecond)

	w := doJSON(t, NewRouter(live.svc, ""), "GET", "/api/spectator/games/"+sess.ID, nil)
	assert.Contains(t, w.Body.String(), `"spectatorCount":1`)

	req, err := http.NewRequest(http.MethodDelete, live.srv.URL+"/api/games/"+sess.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, UpdateClosed, readUpdate(t, conn).Type)

	// Stopping the hub closes every connection
	live.cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
