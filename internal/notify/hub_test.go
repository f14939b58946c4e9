package notify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voxblast/callcenter-backend/internal/notify"
)

func dialHub(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Every connection starts with a welcome event.
	var ev notify.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("failed to read welcome: %v", err)
	}
	if ev.Type != "connection" {
		t.Fatalf("expected connection event, got %q", ev.Type)
	}
	return conn
}

func TestHubNotifiesOnlyTargetUser(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	alice := dialHub(t, srv, "5")
	defer alice.Close()
	bob := dialHub(t, srv, "6")
	defer bob.Close()

	if hub.ConnectedCount() != 2 {
		t.Fatalf("expected 2 connected clients, got %d", hub.ConnectedCount())
	}

	hub.NotifyUser(5, "call_attempt", map[string]any{"phone_number": "15551234567"})

	var ev notify.Event
	if err := alice.ReadJSON(&ev); err != nil {
		t.Fatalf("alice never received the event: %v", err)
	}
	if ev.Type != "call_attempt" {
		t.Errorf("expected call_attempt, got %q", ev.Type)
	}

	// Bob gets nothing; the next read should time out.
	bob.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if err := bob.ReadJSON(&ev); err == nil {
		t.Errorf("bob should not receive events for user 5, got %+v", ev)
	}
}

func TestHubAnswersPing(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dialHub(t, srv, "5")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var ev notify.Event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("pong never arrived: %v", err)
	}
	if ev.Type != "pong" {
		t.Errorf("expected pong, got %q", ev.Type)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dialHub(t, srv, "5")
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("closed client was never dropped, %d still connected", hub.ConnectedCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Notifying after the drop must not panic or block.
	hub.NotifyUser(5, "call_attempt", nil)
}
