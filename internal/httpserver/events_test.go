package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEvent struct {
	Type  string    `json:"type"`
	Round roundJSON `json:"round"`
}

func dialEvents(t *testing.T, ts *httptest.Server, roundID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/rounds/" + roundID + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	alice := signup(t, s, "alice")
	bob := signup(t, s, "bob")
	rd := createRound(t, s, alice, nil)

	conn := dialEvents(t, ts, rd.ID, alice)
	ev := readEvent(t, conn)
	assert.Equal(t, eventState, ev.Type)
	assert.Equal(t, rd.ID, ev.Round.ID)
	require.Len(t, ev.Round.Players, 1)

	require.Eventually(t, func() bool { return s.events.subscribers(rd.ID) == 1 }, time.Second, 10*time.Millisecond)

	rec := do(t, s, http.MethodPost, "/rounds/"+rd.ID+"/join", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ev = readEvent(t, conn)
	assert.Equal(t, eventState, ev.Type)
	assert.Len(t, ev.Round.Players, 2)

	rec = do(t, s, http.MethodPost, "/rounds/"+rd.ID+"/finish", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ev = readEvent(t, conn)
	assert.Equal(t, eventResults, ev.Type)
	assert.Equal(t, "complete", ev.Round.Phase)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, s.events.subscribers(rd.ID))
}

func TestEventsAfterCompletion(t *testing.T) {
	s := newTestServer(t, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	alice := signup(t, s, "alice")
	rd := createRound(t, s, alice, nil)
	rec := do(t, s, http.MethodPost, "/rounds/"+rd.ID+"/finish", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	conn := dialEvents(t, ts, rd.ID, alice)
	ev := readEvent(t, conn)
	assert.Equal(t, eventResults, ev.Type)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestEventsRequireAuth(t *testing.T) {
	s := newTestServer(t, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/rounds/x/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubPublishAfterClose(t *testing.T) {
	h := newEventHub()
	sub := h.subscribe("r1", nil)
	h.publish("r1", event{Type: eventState})
	h.closeRound("r1")
	h.publish("r1", event{Type: eventResults}) // no subscribers, must not panic
	h.unsubscribe("r1", sub)                   // already closed

	var got []string
	for msg := range sub.send {
		got = append(got, string(msg))
	}
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `"type":"state"`)
}
