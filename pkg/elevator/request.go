package elevator

import (
	"fmt"
	"strings"
)

// Mode selects how a run is executed.
type Mode string

const (
	ModeRealtime Mode = "realtime" // 실시간 재생
	ModeInstant  Mode = "instant"  // 즉시 계산
)

// ParseMode parses a mode name. An empty name means realtime.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRealtime:
		return ModeRealtime, nil
	case ModeInstant:
		return ModeInstant, nil
	default:
		return "", fmt.Errorf("%w: unknown simulation mode %q", ErrValidation, s)
	}
}

// Request is the raw input of one simulation as typed by a user.
// Request는 사용자가 입력한 원본 시뮬레이션 요청입니다.
type Request struct {
	StartFloor        string `json:"startFloor"`
	DestinationFloors string `json:"destinationFloors"`
	Variant           string `json:"variant"`
	Mode              string `json:"mode"`
}

// Prepare validates every field of req and builds a fresh engine.
// No engine exists when an error is returned. cfg supplies the ID, TimeUnit
// and FaultDelay; its floors and variant are overwritten.
// Prepare는 입력을 모두 검증한 뒤에만 엔진을 생성합니다.
func Prepare(req Request, variants map[string]Variant, cfg Config) (*Elevator, Mode, error) {
	start, err := ParseStartFloor(req.StartFloor)
	if err != nil {
		return nil, "", err
	}
	destinations, err := ParseFloors(req.DestinationFloors)
	if err != nil {
		return nil, "", err
	}
	variant, err := LookupVariant(variants, req.Variant)
	if err != nil {
		return nil, "", err
	}
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, "", err
	}

	cfg.StartFloor = start
	cfg.Destinations = destinations
	cfg.Variant = variant

	e, err := New(cfg)
	if err != nil {
		return nil, "", err
	}
	return e, mode, nil
}
