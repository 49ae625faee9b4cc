package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

func TestOpenTelemetryPassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(OpenTelemetry())
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	})

	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/users/7")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
}

func TestOpenTelemetryFilterSkips(t *testing.T) {
	traced := false

	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithRequestFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/healthz")
		}),
		WithAttributeExtractor(func(r *http.Request) []attribute.KeyValue {
			traced = true
			return nil
		}),
	))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/work", func(w http.ResponseWriter, r *http.Request) {})

	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if traced {
		t.Error("filtered request was traced")
	}

	resp, err = http.Get(ts.URL + "/work")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !traced {
		t.Error("unfiltered request was not traced")
	}
}
