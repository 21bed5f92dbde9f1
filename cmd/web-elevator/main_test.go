package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"go-elevator-route-simulator/pkg/elevator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler, err := newHandler(&AppConfig{
		TimeUnit: time.Millisecond,
		Variants: elevator.BuiltinVariants(),
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// runUntilDone sends a simulate action and collects messages up to the
// final result or error.
func runUntilDone(t *testing.T, conn *websocket.Conn, req elevator.Request) []ServerMessage {
	t.Helper()
	if err := conn.WriteJSON(ClientMessage{Action: "simulate", Request: &req}); err != nil {
		t.Fatal(err)
	}
	var msgs []ServerMessage
	for {
		msg := read(t, conn)
		msgs = append(msgs, msg)
		if msg.Type == "result" || msg.Type == "error" {
			return msgs
		}
	}
}

func TestSession_Simulate(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	for _, mode := range []string{"instant", "realtime"} {
		msgs := runUntilDone(t, conn, elevator.Request{
			StartFloor:        "10",
			DestinationFloors: "9, 11,13",
			Variant:           "standard",
			Mode:              mode,
		})

		if msgs[0].Type != "accepted" || msgs[0].RunID == "" || msgs[0].Mode != mode {
			t.Fatalf("%s: expected accepted first, got %+v", mode, msgs[0])
		}
		steps := msgs[1 : len(msgs)-1]
		if len(steps) != 14 {
			t.Fatalf("%s: expected 14 step messages, got %d", mode, len(steps))
		}
		for _, s := range steps {
			if s.Type != "step" || s.RunID != msgs[0].RunID {
				t.Errorf("%s: unexpected message %+v", mode, s)
			}
		}
		if last := steps[len(steps)-1].Event; last.Type != "complete" || last.TotalTime == nil || *last.TotalTime != 76 {
			t.Errorf("%s: expected complete event with total 76, got %+v", mode, last)
		}
		if first := steps[0].Event; first.Type != "doors_closing" || first.Duration == nil || *first.Duration != 2 {
			t.Errorf("%s: unexpected first event %+v", mode, first)
		}

		final := msgs[len(msgs)-1]
		if final.Type != "result" {
			t.Fatalf("%s: expected result, got %+v", mode, final)
		}
		if final.Status != string(elevator.StatusComplete) {
			t.Errorf("%s: expected complete status, got %s", mode, final.Status)
		}
		if final.Result.TotalTime != 76 || !slices.Equal(final.Result.Route, []int{10, 9, 11, 13}) {
			t.Errorf("%s: unexpected result %+v", mode, final.Result)
		}
		if final.Breakdown.TravelTime != 50 || final.Breakdown.FloorsVisited != 3 {
			t.Errorf("%s: unexpected breakdown %+v", mode, final.Breakdown)
		}
	}
}

func TestSession_RejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	msgs := runUntilDone(t, conn, elevator.Request{StartFloor: "10", DestinationFloors: "a,2"})
	if len(msgs) != 1 || msgs[0].Type != "error" || !strings.Contains(msgs[0].Error, "invalid floor number") {
		t.Errorf("Expected a single validation error, got %+v", msgs)
	}
}

func TestSession_Variants(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteJSON(ClientMessage{Action: "variants"}); err != nil {
		t.Fatal(err)
	}
	msg := read(t, conn)
	if msg.Type != "variants" || len(msg.Variants) != 2 {
		t.Fatalf("Unexpected variants message %+v", msg)
	}
	if msg.Variants[0].Name != "express" || msg.Variants[0].FloorTravelTime != 5 {
		t.Errorf("Unexpected express entry %+v", msg.Variants[0])
	}
}

func TestStaticPage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Elevator Simulation") {
		t.Errorf("Unexpected index response %d", resp.StatusCode)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TIME_UNIT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VARIANTS_FILE", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" || cfg.TimeUnit != 250*time.Millisecond || len(cfg.Variants) != 2 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	t.Setenv("TIME_UNIT", "soon")
	if _, err := loadConfig(); err == nil {
		t.Error("Expected error for bad TIME_UNIT")
	}
}
