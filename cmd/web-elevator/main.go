package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-elevator-route-simulator/pkg/elevator"
	"go-elevator-route-simulator/pkg/variants"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types
// 메시지 타입 정의
type ClientMessage struct {
	Action  string            `json:"action"`
	Request *elevator.Request `json:"request,omitempty"`
}

type ServerMessage struct {
	Type      string              `json:"type"`
	RunID     string              `json:"runId,omitempty"`
	Mode      string              `json:"mode,omitempty"`
	Event     *StepMessage        `json:"event,omitempty"`
	Status    string              `json:"status,omitempty"`
	Floor     *int                `json:"floor,omitempty"`
	Result    *ResultMessage      `json:"result,omitempty"`
	Breakdown *elevator.Breakdown `json:"breakdown,omitempty"`
	Error     string              `json:"error,omitempty"`
	Variants  []VariantMessage    `json:"variants,omitempty"`
}

// StepMessage is the wire form of a StepEvent. Fields that do not apply to
// the event type are omitted.
type StepMessage struct {
	Type      string `json:"type"`
	Floor     int    `json:"floor"`
	Timestamp int    `json:"timestamp"`
	Duration  *int   `json:"duration,omitempty"`
	From      *int   `json:"from,omitempty"`
	To        *int   `json:"to,omitempty"`
	TotalTime *int   `json:"totalTime,omitempty"`
	Route     []int  `json:"route,omitempty"`
	Text      string `json:"text,omitempty"`
}

type ResultMessage struct {
	TotalTime int           `json:"totalTime"`
	Route     []int         `json:"route"`
	History   []StepMessage `json:"history"`
}

type VariantMessage struct {
	Name            string `json:"name"`
	FloorTravelTime int    `json:"floorTravelTime"`
	DoorOpenTime    int    `json:"doorOpenTime"`
	DoorCloseTime   int    `json:"doorCloseTime"`
	TransferTime    int    `json:"passengerTransferTime"`
	TravelingLabel  string `json:"travelingLabel"`
}

func toStepMessage(ev elevator.StepEvent) StepMessage {
	msg := StepMessage{
		Type:      string(ev.Type),
		Floor:     ev.Floor,
		Timestamp: ev.Timestamp,
		Text:      elevator.Describe(ev),
	}
	if ev.Type == elevator.EventComplete {
		total := ev.TotalTime
		msg.TotalTime = &total
		msg.Route = ev.Route
		return msg
	}
	duration := ev.Duration
	msg.Duration = &duration
	if ev.Type == elevator.EventTraveling {
		from, to := ev.From, ev.To
		msg.From = &from
		msg.To = &to
	}
	return msg
}

func toResultMessage(r elevator.Result) *ResultMessage {
	history := make([]StepMessage, 0, len(r.History))
	for _, ev := range r.History {
		history = append(history, toStepMessage(ev))
	}
	return &ResultMessage{TotalTime: r.TotalTime, Route: r.Route, History: history}
}

// ElevatorSession manages a WebSocket connection and the simulation it drives.
// ElevatorSession은 WebSocket 연결과 해당 연결의 시뮬레이션을 관리합니다.
type ElevatorSession struct {
	conn     *websocket.Conn
	app      *AppConfig
	elevator *elevator.Elevator
	runID    string
	active   bool       // a run goroutine is in flight
	mu       sync.Mutex // guards elevator, runID, active, cancel
	writeMu  sync.Mutex // gorilla allows one concurrent writer
	done     chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewElevatorSession(conn *websocket.Conn, app *AppConfig) *ElevatorSession {
	return &ElevatorSession{
		conn: conn,
		app:  app,
		done: make(chan struct{}),
	}
}

func (s *ElevatorSession) HandleMessages() {
	slog.Info("Session started", "remote_addr", s.conn.RemoteAddr())
	defer func() {
		close(s.done)
		s.stop()
		s.wg.Wait()
		_ = s.conn.Close()
		slog.Info("Session ended", "remote_addr", s.conn.RemoteAddr())
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

func (s *ElevatorSession) handleAction(msg ClientMessage) {
	slog.Debug("Action received", "action", msg.Action)

	switch msg.Action {
	case "simulate":
		s.simulate(msg.Request)
	case "stop":
		s.stop()
	case "variants":
		s.sendVariants()
	default:
		s.writeJSON(ServerMessage{Type: "error", Error: "unknown action: " + msg.Action})
	}
}

// simulate validates the request, then runs it on a fresh engine.
// 입력 오류는 엔진 생성 전에 보고됩니다.
func (s *ElevatorSession) simulate(req *elevator.Request) {
	if req == nil {
		s.writeJSON(ServerMessage{Type: "error", Error: "no request provided for simulate"})
		return
	}

	s.mu.Lock()
	if s.active {
		runID := s.runID
		s.mu.Unlock()
		s.writeJSON(ServerMessage{Type: "error", RunID: runID, Error: elevator.ErrAlreadyRunning.Error()})
		return
	}

	runID := uuid.NewString()
	e, mode, err := elevator.Prepare(*req, s.app.Variants, elevator.Config{
		ID:       runID,
		TimeUnit: s.app.TimeUnit,
	})
	if err != nil {
		s.mu.Unlock()
		slog.Warn("Rejected simulation request", "error", err)
		s.writeJSON(ServerMessage{Type: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.elevator = e
	s.runID = runID
	s.cancel = cancel
	s.active = true
	s.mu.Unlock()

	s.writeJSON(ServerMessage{Type: "accepted", RunID: runID, Mode: string(mode)})

	// Subscribe to events. The buffer holds every event of the run, so
	// nothing is dropped even in instant mode.
	// 이벤트 구독
	sink := elevator.NewChannelSink(4*len(e.Destinations()) + 2)
	e.Subscribe(sink)

	flushed := make(chan struct{})
	s.wg.Add(2)
	go s.eventListener(e, runID, sink, flushed)
	go func() {
		defer s.wg.Done()
		defer cancel()

		result, err := e.Run(ctx, mode)
		sink.Close()
		<-flushed // step messages go out before the final message

		s.mu.Lock()
		s.active = false
		s.mu.Unlock()

		if err != nil {
			slog.Error("Simulation run error", "run_id", runID, "error", err)
			s.writeJSON(ServerMessage{Type: "error", RunID: runID, Status: string(e.Status()), Error: err.Error()})
			return
		}
		breakdown := elevator.Summarize(result)
		s.writeJSON(ServerMessage{
			Type:      "result",
			RunID:     runID,
			Mode:      string(mode),
			Status:    string(e.Status()),
			Result:    toResultMessage(result),
			Breakdown: &breakdown,
		})
	}()
}

func (s *ElevatorSession) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ElevatorSession) eventListener(e *elevator.Elevator, runID string, sink *elevator.ChannelSink, flushed chan<- struct{}) {
	defer s.wg.Done()
	defer close(flushed)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-sink.Events():
			if !ok {
				return
			}
			step := toStepMessage(ev)
			floor := e.Floor()
			s.writeJSON(ServerMessage{
				Type:   "step",
				RunID:  runID,
				Event:  &step,
				Status: string(e.Status()),
				Floor:  &floor,
			})
		}
	}
}

func (s *ElevatorSession) sendVariants() {
	names := elevator.VariantNames(s.app.Variants)
	list := make([]VariantMessage, 0, len(names))
	for _, name := range names {
		v := s.app.Variants[name]
		list = append(list, VariantMessage{
			Name:            v.Name,
			FloorTravelTime: v.FloorTravelTime,
			DoorOpenTime:    v.DoorOpenTime,
			DoorCloseTime:   v.DoorCloseTime,
			TransferTime:    v.PassengerTransferTime,
			TravelingLabel:  string(v.TravelingLabel),
		})
	}
	s.writeJSON(ServerMessage{Type: "variants", Variants: list})
}

func (s *ElevatorSession) writeJSON(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Error("Failed to write JSON message", "error", err)
	}
}

func newHandler(app *AppConfig) (http.Handler, error) {
	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("WebSocket upgrade failed", "error", err)
			return
		}
		NewElevatorSession(conn, app).HandleMessages()
	})
	return mux, nil
}

type AppConfig struct {
	Port     string
	TimeUnit time.Duration
	Variants map[string]elevator.Variant
	LogLevel slog.Level
}

// loadConfig reads PORT, TIME_UNIT, VARIANTS_FILE and LOG_LEVEL.
func loadConfig() (*AppConfig, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	timeUnit := time.Second
	if v := os.Getenv("TIME_UNIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, errors.New("TIME_UNIT must be a positive duration such as 1s or 250ms")
		}
		timeUnit = d
	}

	catalog := elevator.BuiltinVariants()
	if path := os.Getenv("VARIANTS_FILE"); path != "" {
		loaded, err := variants.Load(path)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	var level slog.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, err
		}
	}

	return &AppConfig{
		Port:     port,
		TimeUnit: timeUnit,
		Variants: catalog,
		LogLevel: level,
	}, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	handler, err := newHandler(cfg)
	if err != nil {
		log.Fatal(err)
	}

	addr := ":" + cfg.Port
	slog.Info("Starting elevator web server", "addr", addr, "time_unit", cfg.TimeUnit)
	slog.Info("Open http://localhost:" + cfg.Port + " in your browser")

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
