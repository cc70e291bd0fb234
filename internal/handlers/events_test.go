package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resqhome-backend/internal/handlers"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository/memory"
	"resqhome-backend/internal/services"

	"github.com/gorilla/websocket"
)

func newEventsServer(t *testing.T) (*httptest.Server, *services.EventHub, *services.UserService) {
	t.Helper()

	hub := services.NewEventHub()
	users := services.NewUserService(memory.NewUserRepo(), "test-secret", time.Hour)
	h := handlers.NewEventsHandler(hub, users)

	srv := httptest.NewServer(http.HandlerFunc(h.Subscribe))
	t.Cleanup(srv.Close)
	return srv, hub, users
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
}

func tokenFor(t *testing.T, users *services.UserService, id, role string) string {
	t.Helper()
	token, err := users.GenerateToken(&models.User{ID: id, Email: id + "@example.com", Role: role})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	// let the handler register the connection with the hub
	time.Sleep(100 * time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) services.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var event services.Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return event
}

func TestSubscribeAuth(t *testing.T) {
	srv, _, users := newEventsServer(t)

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "garbage", http.StatusUnauthorized},
		{"user role", tokenFor(t, users, "u1", models.RoleUser), http.StatusForbidden},
	}
	for _, tc := range cases {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tc.token), nil)
		if conn != nil {
			conn.Close()
		}
		if !errors.Is(err, websocket.ErrBadHandshake) {
			t.Fatalf("%s: expected handshake rejection, got %v", tc.name, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.status)
		}
	}
}

func TestEventDelivery(t *testing.T) {
	srv, hub, users := newEventsServer(t)

	conn := dial(t, srv, tokenFor(t, users, "corp1", models.RoleCorporation))

	hub.Publish(services.Event{Type: services.EventReportFiled, Data: map[string]string{"id": "r1"}})

	event := readEvent(t, conn)
	if event.Type != services.EventReportFiled {
		t.Fatalf("event type = %q, want %q", event.Type, services.EventReportFiled)
	}
	if event.Timestamp == 0 {
		t.Fatal("timestamp not set")
	}
}

func TestReconnectKeepsCurrentSubscriber(t *testing.T) {
	srv, hub, users := newEventsServer(t)
	token := tokenFor(t, users, "corp1", models.RoleCorporation)

	first := dial(t, srv, token)
	second := dial(t, srv, token)

	// the hub closed the first connection when the second registered
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("replaced connection still readable")
	}
	// give the first connection's handler goroutine time to exit; its
	// teardown must leave the replacement registered
	time.Sleep(100 * time.Millisecond)

	hub.Publish(services.Event{Type: services.EventAdoptionRequested})

	event := readEvent(t, second)
	if event.Type != services.EventAdoptionRequested {
		t.Fatalf("event type = %q, want %q", event.Type, services.EventAdoptionRequested)
	}
}

func TestDeadSubscriberDropped(t *testing.T) {
	srv, hub, users := newEventsServer(t)

	gone := dial(t, srv, tokenFor(t, users, "corp1", models.RoleCorporation))
	gone.Close()
	time.Sleep(100 * time.Millisecond)

	// publishing to the dead connection must not block or panic; the
	// hub drops it on write failure
	hub.Publish(services.Event{Type: services.EventReportFiled})
	hub.Publish(services.Event{Type: services.EventReportFiled})

	// a live subscriber still receives events afterwards
	alive := dial(t, srv, tokenFor(t, users, "corp2", models.RoleCorporation))
	hub.Publish(services.Event{Type: services.EventReportRescued})

	event := readEvent(t, alive)
	if event.Type != services.EventReportRescued {
		t.Fatalf("event type = %q, want %q", event.Type, services.EventReportRescued)
	}
}
