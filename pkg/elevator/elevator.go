// Package elevator implements a single-cab elevator route simulator.
// The cab visits a fixed list of floors in order, running a travel, door-open,
// passenger-transfer and door-close phase at each one. A run can play back in
// real time or be computed instantly; both produce the same history.
// 이 패키지는 주어진 층 목록을 순서대로 방문하는 엘리베이터 시뮬레이터를 구현합니다.
// 실시간 재생과 즉시 계산 두 가지 모드는 동일한 결과를 만들어야 합니다.
package elevator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// Config holds immutable configuration parameters.
// Config는 생성 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	ID           string
	StartFloor   int           // 출발 층
	Destinations []int         // 방문할 층 목록 (순서 유지, 중복 허용)
	Variant      Variant       // 타이밍 상수 (기본값: Standard)
	TimeUnit     time.Duration // 실시간 모드에서 1 시간 단위의 실제 길이 (기본값: 1초)

	// FaultDelay adds wall-clock delay to a phase in real-time mode.
	// Used to simulate a stuck door or motor.
	FaultDelay func(StepEvent) time.Duration
}

// Elevator is the simulation engine.
// Elevator의 모든 상태 변경은 Mutex로 보호되며, 단계 시작은 EventSink로 전파됩니다.
type Elevator struct {
	mu     sync.RWMutex
	Config Config

	// --- State (가변 상태) ---
	floor     int         // 현재 층
	doorsOpen bool        // 문 열림 여부
	moving    bool        // 이동 중 여부
	route     []int       // 실제 방문한 층 (출발 층 포함)
	elapsed   int         // 누적 소요 시간 (시간 단위)
	status    Status      // 관찰용 상태
	history   []StepEvent // 발행된 이벤트 기록
	running   bool

	// --- Observability ---
	sink   EventSink // 단일 구독자, 마지막 등록이 우선
	logger *slog.Logger
}

// New initializes a new Elevator with strict validation.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(config Config) (*Elevator, error) {
	if len(config.Destinations) == 0 {
		return nil, fmt.Errorf("%w: destination floors must be a non-empty list", ErrValidation)
	}

	// Defensive Initialization: zero Variant means Standard
	if config.Variant == (Variant{}) {
		config.Variant = Standard
	}
	if err := config.Variant.Validate(); err != nil {
		return nil, err
	}

	if config.TimeUnit <= 0 {
		config.TimeUnit = time.Second
	}
	config.Destinations = slices.Clone(config.Destinations)

	e := &Elevator{
		Config: config,
		logger: slog.Default().With("id", config.ID),
	}
	e.resetLocked()

	e.logger.Info("Elevator initialized",
		"variant", config.Variant.Name,
		"start_floor", config.StartFloor,
		"destinations", config.Destinations,
	)

	return e, nil
}

// Floor returns the current floor safely.
// Floor은 현재 층을 안전하게 반환합니다.
func (e *Elevator) Floor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.floor
}

// Status returns the current status label.
func (e *Elevator) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// DoorsOpen reports whether the doors are open.
func (e *Elevator) DoorsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doorsOpen
}

// Moving reports whether a travel phase is in progress.
func (e *Elevator) Moving() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.moving
}

// Running reports whether a run is in progress.
func (e *Elevator) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// ElapsedTime returns the sum of all committed phase durations.
// ElapsedTime은 완료된 단계들의 누적 시간을 반환합니다.
func (e *Elevator) ElapsedTime() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.elapsed
}

// Route returns a copy of the floors visited so far.
func (e *Elevator) Route() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.route)
}

// History returns a copy of the events emitted so far.
func (e *Elevator) History() []StepEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneEvents(e.history)
}

// StartFloor returns the original start floor. Runs never change it.
func (e *Elevator) StartFloor() int {
	return e.Config.StartFloor
}

// Destinations returns a copy of the destination queue.
func (e *Elevator) Destinations() []int {
	return slices.Clone(e.Config.Destinations)
}

// Subscribe registers the event sink. A later call replaces the earlier
// sink; nil unsubscribes.
// Subscribe는 이벤트 싱크를 등록합니다. 마지막으로 등록된 싱크만 유효합니다.
func (e *Elevator) Subscribe(sink EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Reset restores the original start floor and clears every derived counter.
// The destination queue is untouched.
// Reset은 엘리베이터를 최초 출발 상태로 되돌립니다. 운행 중에는 실패합니다.
func (e *Elevator) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return fmt.Errorf("%w: cannot reset during a run", ErrAlreadyRunning)
	}
	e.resetLocked()
	e.logger.Debug("Elevator state reset", "floor", e.floor)
	return nil
}

func (e *Elevator) resetLocked() {
	e.floor = e.Config.StartFloor
	e.route = []int{e.Config.StartFloor}
	e.elapsed = 0
	e.history = nil
	e.doorsOpen = false
	e.moving = false
	e.status = StatusIdle
}

// Results returns a deep-copied snapshot of the run.
// Results는 엔진 상태와 메모리를 공유하지 않는 스냅샷을 반환합니다.
func (e *Elevator) Results() (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	src := Result{
		TotalTime: e.elapsed,
		Route:     e.route,
		History:   e.history,
	}
	var dst Result
	if err := deepcopy.Copy(&dst, &src); err != nil {
		return Result{}, fmt.Errorf("snapshot results: %w", err)
	}
	return dst, nil
}

// --- Phases (단계) ---

// CloseDoors runs the door-close phase in real time.
func (e *Elevator) CloseDoors(ctx context.Context) error {
	return e.execute(ctx, e.exclusive(e.closeDoors), true)
}

// OpenDoors runs the door-open phase in real time.
func (e *Elevator) OpenDoors(ctx context.Context) error {
	return e.execute(ctx, e.exclusive(e.openDoors), true)
}

// Travel moves the cab to target in real time.
// Travel은 목표 층으로 이동합니다. 문이 열려 있으면 실패합니다.
func (e *Elevator) Travel(ctx context.Context, target int) error {
	return e.execute(ctx, e.exclusive(e.travelTo(target)), true)
}

// LoadPassengers runs the passenger-transfer phase in real time.
func (e *Elevator) LoadPassengers(ctx context.Context) error {
	return e.execute(ctx, e.exclusive(e.loadPassengers), true)
}

// exclusive keeps single phases from interleaving with a run.
func (e *Elevator) exclusive(build func() (phase, error)) func() (phase, error) {
	return func() (phase, error) {
		if e.running {
			return phase{}, fmt.Errorf("%w: phase requested during a run", ErrAlreadyRunning)
		}
		return build()
	}
}

func (e *Elevator) closeDoors() (phase, error) {
	if !e.doorsOpen {
		return phase{}, fmt.Errorf("%w: doors already closed", ErrInvalidState)
	}
	return phase{
		name:    "door closing",
		status:  StatusDoorsClosing,
		event:   StepEvent{Type: EventDoorsClosing, Duration: e.Config.Variant.DoorCloseTime},
		guarded: true,
		commit:  func() { e.doorsOpen = false },
	}, nil
}

func (e *Elevator) openDoors() (phase, error) {
	if e.moving {
		return phase{}, fmt.Errorf("%w: cannot open doors while moving", ErrInvalidState)
	}
	return phase{
		name:    "door opening",
		status:  StatusDoorsOpening,
		event:   StepEvent{Type: EventDoorsOpening, Duration: e.Config.Variant.DoorOpenTime},
		guarded: true,
		commit:  func() { e.doorsOpen = true },
	}, nil
}

func (e *Elevator) loadPassengers() (phase, error) {
	if !e.doorsOpen {
		return phase{}, fmt.Errorf("%w: doors must be open for passenger transfer", ErrInvalidState)
	}
	return phase{
		name:    "passenger transfer",
		status:  StatusPassengerTransfer,
		event:   StepEvent{Type: EventPassengerTransfer, Duration: e.Config.Variant.PassengerTransferTime},
		guarded: true,
	}, nil
}

func (e *Elevator) travelTo(target int) func() (phase, error) {
	return func() (phase, error) {
		if e.doorsOpen {
			return phase{}, fmt.Errorf("%w: cannot move with doors open", ErrInvalidState)
		}
		distance := target - e.floor
		if distance < 0 {
			distance = -distance
		}
		return phase{
			name:   "travel",
			status: e.Config.Variant.TravelingLabel,
			event: StepEvent{
				Type:     EventTraveling,
				From:     e.floor,
				To:       target,
				Duration: distance * e.Config.Variant.FloorTravelTime,
			},
			// Travel time grows with distance, so it is not raced against the timeout.
			guarded: false,
			begin:   func() { e.moving = true },
			commit: func() {
				e.floor = target
				e.route = append(e.route, target)
				e.moving = false
			},
		}, nil
	}
}

// execute announces a phase, waits for it (real-time only) and commits it.
// 단계 시작 알림 -> (실시간이면) 대기 -> 상태 반영 순서로 진행합니다.
func (e *Elevator) execute(ctx context.Context, build func() (phase, error), realtime bool) error {
	e.mu.Lock()
	p, err := build()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	p.event.Floor = e.floor
	p.event.Timestamp = e.elapsed
	e.status = p.status
	if p.begin != nil {
		p.begin()
	}
	e.history = append(e.history, p.event)
	sink := e.sink
	e.mu.Unlock()

	e.logger.Debug("Phase started",
		"phase", p.name,
		"floor", p.event.Floor,
		"timestamp", p.event.Timestamp,
		"duration", p.event.Duration,
	)
	if sink != nil {
		sink.Publish(p.event)
	}

	if realtime {
		if err := e.wait(ctx, p); err != nil {
			return err
		}
	}

	e.mu.Lock()
	if p.commit != nil {
		p.commit()
	}
	e.elapsed += p.event.Duration
	e.mu.Unlock()
	return nil
}

// wait blocks for the phase duration, racing the operation timeout when the
// phase is guarded.
func (e *Elevator) wait(ctx context.Context, p phase) error {
	d := time.Duration(p.event.Duration) * e.Config.TimeUnit
	if e.Config.FaultDelay != nil {
		d += e.Config.FaultDelay(p.event)
	}

	done := time.NewTimer(d)
	defer done.Stop()

	var timeout <-chan time.Time
	if p.guarded {
		t := time.NewTimer(time.Duration(e.Config.Variant.OperationTimeout) * e.Config.TimeUnit)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-done.C:
		return nil
	case <-timeout:
		e.logger.Warn("Phase exceeded operation timeout", "phase", p.name, "floor", p.event.Floor)
		return fmt.Errorf("%w: %s at floor %d", ErrOperationTimeout, p.name, p.event.Floor)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Run protocol (운행) ---

// Start runs the whole route in real time and blocks until it completes.
// Every phase sleeps for its modeled duration, so subscribers see each
// announcement before the phase commits.
// Start는 전체 경로를 실시간으로 실행합니다. 운행 중 재호출하면 ErrAlreadyRunning을 반환합니다.
func (e *Elevator) Start(ctx context.Context) error {
	return e.run(ctx, true)
}

// Compute runs the same protocol as Start without any waiting or timeout
// race and returns the result. It resets the engine first, so calling it
// again on a finished engine yields the same result.
// Compute는 대기 없이 즉시 결과를 계산합니다.
func (e *Elevator) Compute() (Result, error) {
	if err := e.run(context.Background(), false); err != nil {
		return Result{}, err
	}
	return e.Results()
}

// Run executes the route in the given mode and returns the result.
func (e *Elevator) Run(ctx context.Context, mode Mode) (Result, error) {
	switch mode {
	case ModeInstant:
		return e.Compute()
	case ModeRealtime:
		if err := e.Start(ctx); err != nil {
			return Result{}, err
		}
		return e.Results()
	default:
		return Result{}, fmt.Errorf("%w: unknown simulation mode %q", ErrValidation, mode)
	}
}

func (e *Elevator) run(ctx context.Context, realtime bool) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.resetLocked()
	e.running = true
	e.status = StatusRunning
	e.mu.Unlock()

	mode := ModeInstant
	if realtime {
		mode = ModeRealtime
	}
	e.logger.Info("▶️ Simulation started", "mode", mode, "floor", e.Config.StartFloor)

	if err := e.sequence(ctx, realtime); err != nil {
		e.mu.Lock()
		e.status = StatusError
		e.running = false
		floor := e.floor
		e.mu.Unlock()

		e.logger.Error("Simulation aborted", "error", err, "floor", floor)
		return err
	}

	e.mu.Lock()
	e.status = StatusComplete
	e.running = false
	done := StepEvent{
		Type:      EventComplete,
		Floor:     e.floor,
		Timestamp: e.elapsed,
		TotalTime: e.elapsed,
		Route:     slices.Clone(e.route),
	}
	e.history = append(e.history, done)
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink.Publish(done)
	}
	e.logger.Info("🏁 Simulation complete", "mode", mode, "total_time", done.TotalTime, "route", done.Route)
	return nil
}

// sequence is the fixed phase order: close the initially open doors, then
// travel, open, transfer and close at every destination.
func (e *Elevator) sequence(ctx context.Context, realtime bool) error {
	// Doors start open at the starting floor.
	e.mu.Lock()
	e.doorsOpen = true
	e.mu.Unlock()

	if err := e.execute(ctx, e.closeDoors, realtime); err != nil {
		return err
	}

	for _, target := range e.Config.Destinations {
		steps := []func() (phase, error){
			e.travelTo(target),
			e.openDoors,
			e.loadPassengers,
			e.closeDoors,
		}
		for _, step := range steps {
			if err := e.execute(ctx, step, realtime); err != nil {
				return err
			}
		}
	}
	return nil
}

func cloneEvents(events []StepEvent) []StepEvent {
	if events == nil {
		return nil
	}
	out := make([]StepEvent, len(events))
	for i, ev := range events {
		ev.Route = slices.Clone(ev.Route)
		out[i] = ev
	}
	return out
}
