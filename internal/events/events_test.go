package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
)

func TestPublishSubscribe(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("v1")
	defer cancel()
	other, cancelOther := h.Subscribe("v2")
	defer cancelOther()

	h.Publish("v1", Toast(KindSuccess, "Bookmarked"))

	select {
	case ev := <-ch:
		if ev.Type != TypeToast || ev.Message != "Bookmarked" || ev.Kind != KindSuccess {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected an event for v1")
	}

	select {
	case ev := <-other:
		t.Errorf("v2 received v1's event: %+v", ev)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("v1")
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	if n := h.Subscribers("v1"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestSlowSubscriberDropped(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("v1")
	defer cancel()

	for i := 0; i < bufferSize+1; i++ {
		h.Publish("v1", Event{Type: TypeNavigate})
	}
	if n := h.Subscribers("v1"); n != 0 {
		t.Fatalf("subscribers = %d, want slow subscriber dropped", n)
	}

	count := 0
	for range ch {
		count++
	}
	if count != bufferSize {
		t.Errorf("drained %d events, want %d", count, bufferSize)
	}
}

func TestCloseEndsStreams(t *testing.T) {
	h := NewHub(nil)
	ch, _ := h.Subscribe("v1")
	h.Close()
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after Close")
	}

	late, _ := h.Subscribe("v1")
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}

func TestHandlerStreamsEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	server := httptest.NewServer(h.Handler(func(r *http.Request) string {
		return r.URL.Query().Get("visitor")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/?visitor=v1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers("v1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Publish("v1", Event{Type: TypeHighlight, ID: "R1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != TypeHighlight || ev.ID != "R1" {
		t.Errorf("unexpected event: %+v", ev)
	}

	h.Close()
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the stream to close after hub shutdown")
	}
}

func TestHandlerRequiresVisitor(t *testing.T) {
	h := NewHub(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)

	h.Handler(func(*http.Request) string { return "" })(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
