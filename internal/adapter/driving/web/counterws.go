package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ericfisherdev/iatsite/internal/application"
)

const (
	counterWriteWait = 5 * time.Second
	counterReadLimit = 512

	// A peer that misses pongs for counterPongWait is treated as gone.
	counterPongWait   = 60 * time.Second
	counterPingPeriod = counterPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// counterMessage is the JSON envelope exchanged on a counter socket. The page
// sends {"type":"visible"} when the element enters the viewport; the server
// answers with "frame" messages until one has done=true.
type counterMessage struct {
	Type    string `json:"type"`
	Value   int    `json:"value"`
	Display string `json:"display,omitempty"`
	Done    bool   `json:"done"`
}

const (
	counterMsgVisible = "visible"
	counterMsgFrame   = "frame"
)

// CounterSocket streams the animation of one stat counter. Opening the socket
// mounts the counter and closing it unmounts it; an unknown stat ID is
// rejected with 404 before the upgrade. A socket still open after the mount
// timeout, or when the handler is closed, gets a 1001 close frame.
func (h *Handler) CounterSocket(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	stat, found := snap.Content.StatByID(id)
	if !found {
		http.Error(w, "counter not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("counter websocket upgrade failed", "id", id, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(counterReadLimit)

	// Mount lifetime is bounded by the handler and the configured timeout.
	ctx, cancel := context.WithTimeout(h.lifetime, h.settings.CounterMountTimeout)
	defer cancel()

	visible := make(chan struct{}, 1)
	go readCounterEvents(ctx, cancel, conn, h.pongWait, visible)
	go pingCounter(ctx, conn, h.pingPeriod)

	counter := application.NewCounter(application.CounterSpec{
		End:      stat.Number,
		Suffix:   stat.Suffix,
		Duration: h.settings.CounterDuration,
	}, nil)

	emit := func(f application.CounterFrame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(counterWriteWait))
		return conn.WriteJSON(counterMessage{
			Type:    counterMsgFrame,
			Value:   f.Value,
			Display: f.Display,
			Done:    f.Done,
		})
	}

	if err := application.Animate(ctx, counter, h.settings.CounterFrameInterval, visible, emit); err != nil {
		h.logger.Debug("counter websocket write failed", "id", id, "error", err)
		return
	}

	var msg []byte
	switch {
	case counter.State() == application.CounterDone:
		msg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	case h.lifetime.Err() != nil:
		msg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown")
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		h.logger.Debug("counter websocket idle timeout", "id", id)
		msg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "idle")
	default:
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(counterWriteWait))
}

// pingCounter keeps the read deadline of a live peer moving. WriteControl may
// run concurrently with the frame writer.
func pingCounter(ctx context.Context, conn *websocket.Conn, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(counterWriteWait)); err != nil {
				return
			}
		}
	}
}

// readCounterEvents forwards visibility messages until the peer goes away,
// then cancels the animation. Extra visibility signals are dropped while one
// is pending since the counter ignores repeats anyway.
func readCounterEvents(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, pongWait time.Duration, visible chan<- struct{}) {
	defer cancel()
	extend := func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	_ = extend("")
	conn.SetPongHandler(extend)
	for {
		var msg counterMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = extend("")
		if msg.Type != counterMsgVisible {
			continue
		}
		select {
		case visible <- struct{}{}:
		case <-ctx.Done():
			return
		default:
		}
	}
}
