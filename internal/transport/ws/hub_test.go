package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eunoia/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversToUserOnly(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	alice1, alice2, bob := NewConnection("alice"), NewConnection("alice"), NewConnection("bob")
	hub.Register(alice1)
	hub.Register(alice2)
	hub.Register(bob)
	waitFor(t, func() bool { return hub.Connections("alice") == 2 && hub.Connections("bob") == 1 })

	hub.PublishAssessment("alice", &model.RiskAssessment{ID: "a1", RiskScore: 42, RiskLevel: model.RiskLow})

	for _, conn := range []*Connection{alice1, alice2} {
		select {
		case data := <-conn.Send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("bad message: %v", err)
			}
			if msg.Type != MsgAssessmentStored || !strings.Contains(string(msg.Payload), `"assessment_id":"a1"`) {
				t.Fatalf("unexpected message %s", data)
			}
		case <-time.After(time.Second):
			t.Fatalf("no message delivered")
		}
	}
	select {
	case data := <-bob.Send:
		t.Fatalf("bob received %s", data)
	case <-time.After(50 * time.Millisecond):
	}

	hub.Unregister(alice1)
	waitFor(t, func() bool { return hub.Connections("alice") == 1 })
	if _, ok := <-alice1.Send; ok {
		t.Fatalf("send channel should be closed after unregister")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	conn := NewConnection("u")
	hub.Register(conn)
	waitFor(t, func() bool { return hub.Connections("u") == 1 })

	hub.Close()
	hub.Close()
	waitFor(t, func() bool { return hub.Connections("u") == 0 })

	late := NewConnection("u")
	hub.Register(late)
	if _, ok := <-late.Send; ok {
		t.Fatalf("register after close should close the connection")
	}
	hub.PublishAssessment("u", &model.RiskAssessment{})
}

type fakeValidator struct{}

func (fakeValidator) ValidateToken(token string) (*model.UserClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.UserClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}, nil
}

func TestAssessmentFeed(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	h := NewHandler(hub, fakeValidator{}, []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(h.AssessmentFeed))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	if _, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil); err == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token")
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != MsgConnected {
		t.Fatalf("expected connected message, got %+v (%v)", hello, err)
	}

	waitFor(t, func() bool { return hub.Connections("alice") == 1 })
	hub.PublishAssessment("alice", &model.RiskAssessment{ID: "a9"})

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MsgAssessmentStored {
		t.Fatalf("type=%s, want %s", msg.Type, MsgAssessmentStored)
	}
}
