// Package relay proxies the panel's per-server websocket event stream:
// single-use sessions for command/response sampling, and a long-lived
// bidirectional bridge for the browser console. It is a proxy, not a source
// of truth; resilience stops at bounded timeouts.
package relay

import "encoding/json"

// Event is one JSON text frame on the upstream protocol.
type Event struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args,omitempty"`
}

// Inbound events the relay reacts to; everything else passes through (or is
// ignored by single-use sessions).
const (
	EventAuth          = "auth"
	EventAuthSuccess   = "auth success"
	EventConsoleOutput = "console output"
	EventStats         = "stats"
	EventStatus        = "status"
	EventTokenExpiring = "token expiring"
	EventSendCommand   = "send command"
	EventSendLogs      = "send logs"
	EventSendStats     = "send stats"
	EventSetState      = "set state"
)

// NewEvent builds an outbound frame. Marshal of a string cannot fail, so
// the error is swallowed here.
func NewEvent(name string, args ...string) Event {
	ev := Event{Event: name}
	for _, a := range args {
		raw, _ := json.Marshal(a)
		ev.Args = append(ev.Args, raw)
	}
	return ev
}

func authEvent(token string) Event { return NewEvent(EventAuth, token) }
func commandEvent(command string) Event { return NewEvent(EventSendCommand, command) }

// TextArg decodes the first argument as a string; ok is false when the
// frame has no decodable text argument.
func TextArg(ev Event) (string, bool) {
	if len(ev.Args) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(ev.Args[0], &s); err != nil {
		return "", false
	}
	return s, true
}
