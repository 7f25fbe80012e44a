package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDispatcher_DisabledIsNoOp(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	d := NewDispatcher(false, NewWebhookTransport(srv.URL), nil)
	if err := d.Dispatch("ERROR", "disk full"); err != nil {
		t.Fatalf("disabled Dispatch returned error: %v", err)
	}
	if called {
		t.Error("disabled dispatcher contacted the transport")
	}
	if d.Enabled() {
		t.Error("Enabled() = true for a disabled dispatcher")
	}
}

func TestDispatcher_NilTransportIsNoOp(t *testing.T) {
	d := NewDispatcher(true, nil, nil)
	if err := d.Dispatch("CRITICAL", "anything"); err != nil {
		t.Fatalf("Dispatch with nil transport returned error: %v", err)
	}
}

func TestDispatcher_DeliversViaWebhook(t *testing.T) {
	var payload webhookPayload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshaling payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(true, NewWebhookTransport(srv.URL), nil)
	if err := d.Dispatch("ERROR", "disk usage at 97%"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
	if payload.Level != "ERROR" {
		t.Errorf("level = %q, want ERROR", payload.Level)
	}
	if payload.Body != "disk usage at 97%" {
		t.Errorf("body = %q", payload.Body)
	}
	if !strings.HasPrefix(payload.Subject, "[sysward] ERROR alert on ") {
		t.Errorf("subject = %q, want product and level embedded", payload.Subject)
	}
	if payload.ID == "" {
		t.Error("event id is empty")
	}
}

func TestDispatcher_TransportFailureReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(true, NewWebhookTransport(srv.URL), nil)
	if err := d.Dispatch("ERROR", "boom"); err == nil {
		t.Error("Dispatch against failing transport returned nil, want error")
	}
}

func TestDispatcher_TimeoutBounds(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	d := NewDispatcher(true, NewWebhookTransport(srv.URL), nil, WithTimeout(100*time.Millisecond))

	start := time.Now()
	err := d.Dispatch("CRITICAL", "stalled transport")
	elapsed := time.Since(start)

	if err == nil {
		t.Error("Dispatch against stalled transport returned nil, want timeout error")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Dispatch blocked for %v, want bounded by the timeout", elapsed)
	}
}

func TestWebhookTransport_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tr := NewWebhookTransport(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tr.Send(ctx, Event{ID: "x"}); err == nil {
		t.Error("Send with cancelled context succeeded, want error")
	}
}
