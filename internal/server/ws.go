package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ayusman/nayana/internal/status"
)

const (
	writeWait       = 5 * time.Second
	defaultFeedRate = 15
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusSocket pushes wink outputs to WebSocket clients. Each client is
// paced by its own limiter; outputs that change the tracker state are
// always sent.
type StatusSocket struct {
	hub  *status.Hub
	rate rate.Limit
	log  *logrus.Entry
}

// NewStatusSocket creates a feed over hub, sending at most perSecond
// routine outputs per client.
func NewStatusSocket(hub *status.Hub, perSecond int, log *logrus.Entry) *StatusSocket {
	if perSecond <= 0 {
		perSecond = defaultFeedRate
	}
	return &StatusSocket{
		hub:  hub,
		rate: rate.Limit(perSecond),
		log:  log,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StatusSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	outputs, cancel := h.hub.Subscribe(status.DefaultBuffer)
	defer cancel()

	// Reader goroutine notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if out, ok := h.hub.Latest(); ok {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}

	limiter := rate.NewLimiter(h.rate, 1)
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case out, ok := <-outputs:
			if !ok {
				return
			}
			if !limiter.Allow() && !out.Transition.Changed() {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(out); err != nil {
				h.log.WithError(err).Debug("websocket write failed")
				return
			}
		}
	}
}
