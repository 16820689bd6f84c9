package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusForbidden, "you do not have access to this server")

	if got, want := rr.Code, http.StatusForbidden; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rr.Header().Get("Content-Type"), "application/json; charset=utf-8"; got != want {
		t.Errorf("content-type = %q, want %q", got, want)
	}
	if got, want := strings.TrimSpace(rr.Body.String()), `{"error":"you do not have access to this server"}`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestWriteJSONSetsStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusCreated, map[string]string{"id": "su-1"})

	if got, want := rr.Code, http.StatusCreated; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := strings.TrimSpace(rr.Body.String()), `{"id":"su-1"}`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}
