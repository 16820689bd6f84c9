package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prismdash/prism/internal/model"
)

func TestConsoleWebsocketBridge(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, model.Identity{UserID: 7, Username: "alice"})

	srv := httptest.NewServer(e.mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/server/9f2a77b1/ws"
	header := http.Header{"Cookie": []string{cookie.String()}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v (resp=%v)", err, resp)
	}
	defer conn.Close()

	// The daemon-side fake answers "send command" with a console line;
	// the bridge must carry both directions.
	cmd := `{"event":"send command","args":["list"]}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev struct {
		Event string            `json:"event"`
		Args  []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal %q: %v", msg, err)
	}
	if ev.Event != "console output" {
		t.Errorf("event = %q, want %q", ev.Event, "console output")
	}
	if len(ev.Args) != 1 || !strings.Contains(string(ev.Args[0]), "players online") {
		t.Errorf("args = %q", ev.Args)
	}
}

func TestConsoleWebsocketRequiresAccess(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, model.Identity{UserID: 7, Username: "alice"})

	srv := httptest.NewServer(e.mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/server/deadbeef/ws"
	header := http.Header{"Cookie": []string{cookie.String()}}

	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("want handshake failure for foreign server")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %+v, want 403", resp)
	}
}
