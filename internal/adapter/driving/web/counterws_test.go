package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/iatsite/internal/adapter/driven/content"
	"github.com/ericfisherdev/iatsite/internal/application"
)

// newKeepaliveServer serves counter sockets with a short pong window.
func newKeepaliveServer(t *testing.T) *httptest.Server {
	t.Helper()
	snap, err := application.NewContentService(content.NewEmbeddedSource()).Load(context.Background())
	require.NoError(t, err)

	h := NewHandler(application.NewContentProvider(snap), nil, Settings{}, slog.Default())
	h.pongWait = 60 * time.Millisecond
	h.pingPeriod = 20 * time.Millisecond
	t.Cleanup(h.Close)

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialStat(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/counters/"+id, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCounterSocket_SilentPeerIsDropped(t *testing.T) {
	conn := dialStat(t, newKeepaliveServer(t), "placements-rate")

	// Not reading means pings go unanswered.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	timedOut := errors.As(err, &netErr) && netErr.Timeout()
	assert.False(t, timedOut, "server should have closed the socket, got %v", err)
}

func TestCounterSocket_PongsKeepSocketOpen(t *testing.T) {
	conn := dialStat(t, newKeepaliveServer(t), "placements-rate")

	// Reading answers pings, so the server keeps extending its deadline
	// well past one pong window.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout(), "socket should still be open, got %v", err)
}
