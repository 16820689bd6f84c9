package relay

// sessionState tracks one relay session's handshake progress.
//
//	connecting -> authenticating -> authenticated -> completed
//
// with failures out of connecting/authenticating. Transitions are driven
// exclusively by handleEvent so the machine is testable with a scripted
// frame sequence and no socket.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateAuthenticated
	stateCompleted
	stateFailed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAuthenticating:
		return "authenticating"
	case stateAuthenticated:
		return "authenticated"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// action is what the session loop must do in response to a frame.
type action int

const (
	actionNone action = iota
	// actionAuthenticated fires exactly once, on the first auth success.
	actionAuthenticated
	// actionRefreshToken means upstream warned the token is expiring; fetch
	// a fresh one and re-authenticate on the same connection.
	actionRefreshToken
)

type session struct {
	state sessionState
	buf   *Buffer
}

func newSession() *session {
	return &session{state: stateConnecting, buf: &Buffer{}}
}

// authSent marks the outbound auth frame as written.
func (s *session) authSent() {
	if s.state == stateConnecting {
		s.state = stateAuthenticating
	}
}

// handleEvent consumes one inbound frame and returns the required action.
// Console output is buffered from the first frame onward, whatever the
// state, so nothing delivered around the auth ack is lost.
func (s *session) handleEvent(ev Event) action {
	switch ev.Event {
	case EventAuthSuccess:
		if s.state == stateAuthenticating {
			s.state = stateAuthenticated
			return actionAuthenticated
		}
		// Re-auth after a token refresh acks with the same event; the
		// callback must not see it twice.
		return actionNone
	case EventConsoleOutput:
		if line, ok := TextArg(ev); ok {
			s.buf.Append(line)
		}
	case EventTokenExpiring:
		return actionRefreshToken
	}
	return actionNone
}
