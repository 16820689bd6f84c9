package relay

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsConn adapts a gorilla connection to Conn. Gorilla allows one concurrent
// writer, so writes are serialized here; reads stay single-goroutine by
// construction of the session loops.
type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

// WrapConn adapts an already-upgraded gorilla connection (the browser side
// of a bridge).
func WrapConn(c *websocket.Conn) Conn {
	return &wsConn{c: c}
}

func (w *wsConn) ReadEvent() (Event, error) {
	var ev Event
	err := w.c.ReadJSON(&ev)
	return ev, err
}

func (w *wsConn) WriteEvent(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteJSON(ev)
}

func (w *wsConn) Close() error { return w.c.Close() }

// NewDialer returns a DialFunc for the panel's daemon sockets. Wings
// validates the Origin header against the panel domain, so it is pinned
// here.
func NewDialer(origin string) DialFunc {
	return func(ctx context.Context, socketURL string) (Conn, error) {
		header := http.Header{}
		if origin != "" {
			header.Set("Origin", origin)
		}
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, socketURL, header)
		if err != nil {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			return nil, err
		}
		return &wsConn{c: c}, nil
	}
}
