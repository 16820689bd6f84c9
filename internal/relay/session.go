package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/panel"
)

var (
	// ErrTimeout means the whole connect..authenticate..callback span
	// exceeded the session bound; the connection has been force-closed.
	ErrTimeout = errors.New("relay session timed out")
	// ErrClosedBeforeAuth means the upstream socket died before the panel
	// acknowledged authentication.
	ErrClosedBeforeAuth = errors.New("connection closed before authentication")
)

// Conn is the minimal surface of a websocket connection. Production conns
// wrap gorilla; tests feed scripted frames.
type Conn interface {
	ReadEvent() (Event, error)
	WriteEvent(Event) error
	Close() error
}

// CredentialsFunc obtains one-time connection credentials for a server.
// Satisfied by (*panel.Client).WebsocketCredentials.
type CredentialsFunc func(ctx context.Context, serverID string) (panel.Credentials, error)

// DialFunc opens the upstream connection.
type DialFunc func(ctx context.Context, socketURL string) (Conn, error)

// Manager opens relay sessions. Sessions are transient and single-use; the
// Manager itself holds no per-server state.
type Manager struct {
	Creds CredentialsFunc
	Dial  DialFunc

	// Timeout bounds one session from connection open to callback return.
	// Zero means 10s.
	Timeout time.Duration

	// CommandWait is the default quiescence window for SendCommandAndAwait.
	// Zero means 5s.
	CommandWait time.Duration
}

const (
	defaultSessionTimeout = 10 * time.Second
	defaultCommandWait    = 5 * time.Second
)

// WithSession connects to serverID's event stream, authenticates, and runs
// fn exactly once with the live connection and the output buffer. The
// connection is closed on every path — success, failure, or timeout.
func (m *Manager) WithSession(ctx context.Context, serverID string, fn func(Conn, *Buffer) error) error {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}

	creds, err := m.Creds(ctx, serverID)
	if err != nil {
		return fmt.Errorf("websocket credentials for %s: %w", serverID, err)
	}

	conn, err := m.Dial(ctx, creds.Socket)
	if err != nil {
		return fmt.Errorf("connect to event stream for %s: %w", serverID, err)
	}

	var once sync.Once
	closeConn := func() { once.Do(func() { _ = conn.Close() }) }
	defer closeConn()

	// The clock covers everything from here to fn returning.
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s := newSession()
	if err := conn.WriteEvent(authEvent(creds.Token)); err != nil {
		return fmt.Errorf("send auth for %s: %w", serverID, err)
	}
	s.authSent()

	authed := make(chan struct{})
	preAuthErr := make(chan error, 1)
	go m.readLoop(ctx, serverID, conn, s, authed, preAuthErr)

	select {
	case <-authed:
	case err := <-preAuthErr:
		closeConn()
		return fmt.Errorf("%w (server %s): %v", ErrClosedBeforeAuth, serverID, err)
	case <-ctx.Done():
		closeConn()
		return fmt.Errorf("%w (server %s)", ErrTimeout, serverID)
	}

	done := make(chan error, 1)
	go func() { done <- fn(conn, s.buf) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		closeConn()
		return fmt.Errorf("%w (server %s)", ErrTimeout, serverID)
	}
}

// readLoop drains upstream frames. Before authentication, a read error is a
// protocol failure surfaced to the caller; after it, the loop just stops —
// the callback's own writes will report the dead connection.
func (m *Manager) readLoop(ctx context.Context, serverID string, conn Conn, s *session, authed chan struct{}, preAuthErr chan<- error) {
	authenticated := false
	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			if !authenticated {
				preAuthErr <- err
			}
			return
		}
		switch s.handleEvent(ev) {
		case actionAuthenticated:
			authenticated = true
			close(authed)
		case actionRefreshToken:
			fresh, err := m.Creds(ctx, serverID)
			if err != nil {
				// Keep running on the old token until upstream drops us.
				logging.Warnf("relay: token refresh for %s failed: %v", serverID, err)
				continue
			}
			if err := conn.WriteEvent(authEvent(fresh.Token)); err != nil {
				logging.Warnf("relay: re-auth for %s failed: %v", serverID, err)
			}
		}
	}
}

// SendCommandAndAwait opens a session, sends command, waits a fixed
// quiescence window, and returns whatever console output accumulated.
//
// This is deliberate fixed-delay sampling, not completion detection — the
// upstream protocol has no end-of-output marker. The snapshot may be
// partial (slow command) or over-inclusive (chatty server); callers must
// tolerate both. The window plus the handshake must fit inside Timeout.
func (m *Manager) SendCommandAndAwait(ctx context.Context, serverID, command string, wait time.Duration) ([]string, error) {
	if wait <= 0 {
		wait = m.CommandWait
	}
	if wait <= 0 {
		wait = defaultCommandWait
	}

	var lines []string
	err := m.WithSession(ctx, serverID, func(conn Conn, buf *Buffer) error {
		buf.Reset()
		if err := conn.WriteEvent(commandEvent(command)); err != nil {
			return fmt.Errorf("send command: %w", err)
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		lines = buf.Lines()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
