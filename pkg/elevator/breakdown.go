package elevator

import "fmt"

// Breakdown aggregates a finished run by phase kind.
// Breakdown은 완료된 운행의 단계별 시간 합계입니다.
type Breakdown struct {
	TravelTime    int `json:"travelTime"`
	DoorOpenTime  int `json:"doorOpenTime"`
	DoorCloseTime int `json:"doorCloseTime"`
	TotalDoorTime int `json:"totalDoorTime"`
	PassengerTime int `json:"passengerTime"`
	FloorsVisited int `json:"floorsVisited"` // 출발 층 제외
	TotalTime     int `json:"totalTime"`
}

// Summarize derives the breakdown from a result's history.
func Summarize(r Result) Breakdown {
	var b Breakdown
	for _, ev := range r.History {
		switch ev.Type {
		case EventTraveling:
			b.TravelTime += ev.Duration
		case EventDoorsOpening:
			b.DoorOpenTime += ev.Duration
		case EventDoorsClosing:
			b.DoorCloseTime += ev.Duration
		case EventPassengerTransfer:
			b.PassengerTime += ev.Duration
		}
	}
	b.TotalDoorTime = b.DoorOpenTime + b.DoorCloseTime
	if len(r.Route) > 0 {
		b.FloorsVisited = len(r.Route) - 1
	}
	b.TotalTime = r.TotalTime
	return b
}

// Describe renders one event as a step line.
func Describe(ev StepEvent) string {
	switch ev.Type {
	case EventTraveling:
		return fmt.Sprintf("The elevator is heading from floor %d to floor %d (%d sec)", ev.From, ev.To, ev.Duration)
	case EventDoorsOpening:
		return fmt.Sprintf("Floor %d doors are opening (%d sec)", ev.Floor, ev.Duration)
	case EventPassengerTransfer:
		return fmt.Sprintf("Floor %d passenger transfer (%d sec)", ev.Floor, ev.Duration)
	case EventDoorsClosing:
		return fmt.Sprintf("Floor %d doors are closing (%d sec)", ev.Floor, ev.Duration)
	case EventComplete:
		return fmt.Sprintf("Simulation complete at floor %d (total %d sec)", ev.Floor, ev.TotalTime)
	}
	return ""
}
