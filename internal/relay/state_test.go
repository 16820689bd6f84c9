package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The state machine is driven with scripted frame sequences; no socket
// involved anywhere in this file.

func TestHandleEvent_HandshakeSequence(t *testing.T) {
	s := newSession()
	assert.Equal(t, stateConnecting, s.state)

	s.authSent()
	assert.Equal(t, stateAuthenticating, s.state)

	assert.Equal(t, actionNone, s.handleEvent(NewEvent(EventStatus, "starting")))
	assert.Equal(t, actionAuthenticated, s.handleEvent(NewEvent(EventAuthSuccess)))
	assert.Equal(t, stateAuthenticated, s.state)
}

func TestHandleEvent_SecondAuthSuccessIsNotSurfaced(t *testing.T) {
	s := newSession()
	s.authSent()

	assert.Equal(t, actionAuthenticated, s.handleEvent(NewEvent(EventAuthSuccess)))
	// Re-auth after token refresh acks with the same frame.
	assert.Equal(t, actionNone, s.handleEvent(NewEvent(EventAuthSuccess)))
}

func TestHandleEvent_BuffersConsoleOutputInAnyState(t *testing.T) {
	s := newSession()
	s.authSent()

	s.handleEvent(NewEvent(EventConsoleOutput, "before auth"))
	s.handleEvent(NewEvent(EventAuthSuccess))
	s.handleEvent(NewEvent(EventConsoleOutput, "after auth"))

	assert.Equal(t, []string{"before auth", "after auth"}, s.buf.Lines())
}

func TestHandleEvent_TokenExpiring(t *testing.T) {
	s := newSession()
	s.authSent()
	s.handleEvent(NewEvent(EventAuthSuccess))

	assert.Equal(t, actionRefreshToken, s.handleEvent(NewEvent(EventTokenExpiring)))
	// State is unchanged; renewal is invisible to the session's consumer.
	assert.Equal(t, stateAuthenticated, s.state)
}

func TestBufferSnapshotAndReset(t *testing.T) {
	var b Buffer
	b.Append("one")
	b.Append("two")

	snap := b.Lines()
	b.Append("three")
	assert.Equal(t, []string{"one", "two"}, snap, "snapshot must not grow")
	assert.Equal(t, []string{"one", "two", "three"}, b.Lines())

	b.Reset()
	assert.Empty(t, b.Lines())
}
