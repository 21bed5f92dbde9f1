package elevator

import "testing"

func TestSummarize(t *testing.T) {
	e := newTestElevator(t, 10, []int{9, 11, 13}, Standard)
	res, err := e.Compute()
	if err != nil {
		t.Fatal(err)
	}

	got := Summarize(res)
	want := Breakdown{
		TravelTime:    50,
		DoorOpenTime:  6,
		DoorCloseTime: 8,
		TotalDoorTime: 14,
		PassengerTime: 12,
		FloorsVisited: 3,
		TotalTime:     76,
	}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
	if sum := got.TravelTime + got.TotalDoorTime + got.PassengerTime; sum != got.TotalTime {
		t.Errorf("Breakdown does not add up: %d != %d", sum, got.TotalTime)
	}
}

func TestDescribe(t *testing.T) {
	cases := map[string]StepEvent{
		"The elevator is heading from floor 10 to floor 9 (10 sec)": {Type: EventTraveling, Floor: 10, From: 10, To: 9, Duration: 10},
		"Floor 9 doors are opening (2 sec)":                         {Type: EventDoorsOpening, Floor: 9, Duration: 2},
		"Floor 9 passenger transfer (4 sec)":                        {Type: EventPassengerTransfer, Floor: 9, Duration: 4},
		"Floor 9 doors are closing (2 sec)":                         {Type: EventDoorsClosing, Floor: 9, Duration: 2},
	}
	for want, ev := range cases {
		if got := Describe(ev); got != want {
			t.Errorf("Describe(%+v) = %q, want %q", ev, got, want)
		}
	}
}
