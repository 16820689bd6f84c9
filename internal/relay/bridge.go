package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/prismdash/prism/internal/logging"
)

// clientEvents is the set of frames a browser is allowed to send upstream.
// Auth frames are dropped: the relay owns authentication and token renewal.
var clientEvents = map[string]bool{
	EventSendCommand: true,
	EventSendLogs:    true,
	EventSendStats:   true,
	EventSetState:    true,
}

// Bridge connects a browser-side websocket to serverID's event stream and
// relays frames both ways until either side closes. Only the handshake is
// clock-bounded; the bridge itself lives as long as the client does.
func (m *Manager) Bridge(ctx context.Context, serverID string, client Conn) error {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}

	creds, err := m.Creds(ctx, serverID)
	if err != nil {
		return fmt.Errorf("websocket credentials for %s: %w", serverID, err)
	}
	upstream, err := m.Dial(ctx, creds.Socket)
	if err != nil {
		return fmt.Errorf("connect to event stream for %s: %w", serverID, err)
	}

	var once sync.Once
	closeBoth := func() {
		once.Do(func() {
			_ = upstream.Close()
			_ = client.Close()
		})
	}
	defer closeBoth()

	s := newSession()
	if err := upstream.WriteEvent(authEvent(creds.Token)); err != nil {
		return fmt.Errorf("send auth for %s: %w", serverID, err)
	}
	s.authSent()

	authCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authed := make(chan struct{})
	errc := make(chan error, 2)

	// Upstream -> client. Token renewal is handled here and never forwarded.
	go func() {
		for {
			ev, err := upstream.ReadEvent()
			if err != nil {
				errc <- err
				return
			}
			switch s.handleEvent(ev) {
			case actionAuthenticated:
				close(authed)
				continue
			case actionRefreshToken:
				fresh, err := m.Creds(ctx, serverID)
				if err != nil {
					logging.Warnf("relay: token refresh for %s failed: %v", serverID, err)
					continue
				}
				if err := upstream.WriteEvent(authEvent(fresh.Token)); err != nil {
					errc <- err
					return
				}
				continue
			}
			if ev.Event == EventAuth || ev.Event == EventAuthSuccess || ev.Event == EventTokenExpiring {
				continue
			}
			if err := client.WriteEvent(ev); err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case <-authed:
	case err := <-errc:
		return fmt.Errorf("%w (server %s): %v", ErrClosedBeforeAuth, serverID, err)
	case <-authCtx.Done():
		return fmt.Errorf("%w (server %s)", ErrTimeout, serverID)
	}

	// Client -> upstream.
	go func() {
		for {
			ev, err := client.ReadEvent()
			if err != nil {
				errc <- err
				return
			}
			if !clientEvents[ev.Event] {
				continue
			}
			if err := upstream.WriteEvent(ev); err != nil {
				errc <- err
				return
			}
		}
	}()

	// First failure on either side tears the bridge down; a clean client
	// close surfaces here as a read error too, which is the normal end.
	err = <-errc
	closeBoth()
	logging.Debugf("relay: bridge for %s ended: %v", serverID, err)
	return nil
}
