package elevator

// --- Domain Entities & Value Objects ---

// Status is the observable state label of the cab.
// Status는 엘리베이터의 관찰용 상태 라벨입니다. 분기 로직에는 사용되지 않습니다.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusRunning           Status = "running"
	StatusDoorsOpening      Status = "doors-opening"
	StatusDoorsClosing      Status = "doors-closing"
	StatusPassengerTransfer Status = "passenger-transfer"
	StatusTraveling         Status = "traveling"
	StatusTravelingExpress  Status = "traveling-express"
	StatusComplete          Status = "complete"
	StatusError             Status = "error"
)

// EventType tags a StepEvent.
// EventType는 StepEvent의 종류를 나타냅니다.
type EventType string

const (
	EventDoorsOpening      EventType = "doors_opening"
	EventDoorsClosing      EventType = "doors_closing"
	EventPassengerTransfer EventType = "passenger_transfer"
	EventTraveling         EventType = "traveling"
	EventComplete          EventType = "complete"
)

// StepEvent describes one phase at the moment it is announced.
// Timestamp is the elapsed total when the phase starts; the phase ends at
// Timestamp + Duration.
// StepEvent는 단계가 시작될 때 발행되는 기록입니다.
type StepEvent struct {
	Type      EventType
	Floor     int // 단계 시작 시점의 층
	Timestamp int
	Duration  int // complete 이벤트에는 해당 없음

	// Traveling only.
	From int
	To   int

	// Complete only.
	TotalTime int
	Route     []int
}

// Result is a snapshot of a finished run.
// Result는 완료된 운행의 스냅샷입니다. 엔진 내부 상태와 메모리를 공유하지 않습니다.
type Result struct {
	TotalTime int
	Route     []int
	History   []StepEvent
}

// phase is one atomic step of the run protocol.
// check runs under the lock before anything is announced; begin runs right
// after the announcement and commit once the duration has elapsed.
type phase struct {
	name    string
	status  Status
	event   StepEvent
	guarded bool // races the operation timeout in real-time mode

	check  func() error
	begin  func()
	commit func()
}
