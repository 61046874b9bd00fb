package target

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteSource(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"targets": ["a.example", " ", "b.example:25566"]}`))
		}))
		defer server.Close()

		got, err := RemoteSource{URL: server.URL}.Load()
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0] != "a.example" || got[1] != "b.example:25566" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("plain text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("a.example\n\nc.example\n"))
		}))
		defer server.Close()

		got, err := RemoteSource{URL: server.URL}.Load()
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[1] != "c.example" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := (RemoteSource{URL: server.URL}).Load(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"targets": []}`))
		}))
		defer server.Close()

		if _, err := (RemoteSource{URL: server.URL}).Load(); err == nil {
			t.Fatal("expected error")
		}
	})
}
