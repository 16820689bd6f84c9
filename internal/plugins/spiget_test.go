package plugins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second)
}

func TestListPassesThroughBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.RequestURI(), "/resources?size=100&sort=-downloads"; got != want {
			t.Errorf("uri = %q, want %q", got, want)
		}
		w.Write([]byte(`[{"id":1,"name":"EssentialsX"}]`))
	})

	raw, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := string(raw), `[{"id":1,"name":"EssentialsX"}]`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestSearchEscapesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.EscapedPath(), "/search/resources/world%20edit") {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.Search(context.Background(), "world edit"); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestResourceRejectsEmptyName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":9}`))
	})

	if _, err := c.Resource(context.Background(), 9); err == nil {
		t.Fatal("want error for resource without a name")
	}
}

func TestDownloadReturnsBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/resources/42/download"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		w.Write([]byte("jar-bytes"))
	})

	data, err := c.Download(context.Background(), 42)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got, want := string(data), "jar-bytes"; got != want {
		t.Errorf("data = %q, want %q", got, want)
	}
}

func TestNon2xxIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("want error for 404")
	}
	if _, err := c.Download(context.Background(), 1); err == nil {
		t.Fatal("want error for 404 download")
	}
}
