package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/prismdash/prism/internal/model"
)

func TestPluginListPassesThrough(t *testing.T) {
	e := newEnv(t)

	rr := e.do(t, http.MethodGet, "/api/plugins/list", "", nil)
	if got, want := rr.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rr.Body.String(), `[{"id":1}]`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestPluginSearch(t *testing.T) {
	e := newEnv(t)

	rr := e.do(t, http.MethodGet, "/api/plugins/search", "", nil)
	if got, want := rr.Code, http.StatusBadRequest; got != want {
		t.Fatalf("missing query status = %d, want %d", got, want)
	}

	rr = e.do(t, http.MethodGet, "/api/plugins/search?query=world+edit", "", nil)
	if got, want := rr.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := e.market.gotQuery, "world edit"; got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
	if got, want := rr.Body.String(), `[{"id":2}]`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestPluginInstall(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, model.Identity{UserID: 7, Username: "alice"})

	rr := e.do(t, http.MethodPost, "/api/plugins/install/9f2a77b1", `{"pluginId":5}`, cookie)
	if got, want := rr.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d body=%q", got, want, rr.Body.String())
	}

	if len(e.panel.uploads) != 1 || e.panel.uploads[0] != "World_Edit.jar" {
		t.Errorf("uploads = %q", e.panel.uploads)
	}
	if len(e.panel.renames) != 1 || e.panel.renames[0] != "World_Edit.jar -> plugins/World_Edit.jar" {
		t.Errorf("renames = %q", e.panel.renames)
	}
	if !strings.Contains(rr.Body.String(), "plugins/World_Edit.jar") {
		t.Errorf("body = %q", rr.Body.String())
	}

	entries, err := e.store.ActivityLog(context.Background(), "9f2a77b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != "plugin.install" {
		t.Errorf("activity = %+v", entries)
	}
}

func TestPluginInstallRequiresPluginID(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, model.Identity{UserID: 7, Username: "alice"})

	rr := e.do(t, http.MethodPost, "/api/plugins/install/9f2a77b1", `{}`, cookie)
	if got, want := rr.Code, http.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func TestJarFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"World Edit", "World_Edit.jar"},
		{"Essentials-X 2.0", "Essentials-X_20.jar"},
		{"///", "plugin.jar"},
	}
	for _, tc := range cases {
		if got := jarFilename(tc.name); got != tc.want {
			t.Errorf("jarFilename(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
