package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"events":[{"id":1,"name":"Go Conf"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok-123"))
	events, err := c.Events(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected a request id header")
	}
	if len(events) != 1 || events[0].Name != "Go Conf" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestEmptyTokenOmitsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	if _, err := c.Events(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no auth header, got %q", gotAuth)
	}
}

func TestUnauthorizedMapping(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := New(srv.URL, nil)
		_, err := c.Event(context.Background(), 7)
		srv.Close()
		if !IsUnauthorized(err) {
			t.Errorf("status %d: expected ErrUnauthorized, got %v", status, err)
		}
	}
}

func TestNotFoundMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if err := c.DeleteEvent(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"end_date must be after start_date"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Generate(context.Background(), 7)
	if err == nil || !strings.Contains(err.Error(), "end_date must be after start_date") {
		t.Errorf("expected detail in error, got %v", err)
	}
}
