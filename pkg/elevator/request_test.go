package elevator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestPrepare(t *testing.T) {
	req := Request{StartFloor: "10", DestinationFloors: "9,11,13", Variant: "Express", Mode: "instant"}
	e, mode, err := Prepare(req, BuiltinVariants(), Config{ID: "prep"})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if mode != ModeInstant {
		t.Errorf("Expected instant mode, got %s", mode)
	}
	if e.Config.Variant != Express || e.StartFloor() != 10 || !slices.Equal(e.Destinations(), []int{9, 11, 13}) {
		t.Errorf("Unexpected engine config: %+v", e.Config)
	}

	res, err := e.Run(context.Background(), mode)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalTime != 51 {
		t.Errorf("Expected 51, got %d", res.TotalTime)
	}
}

func TestPrepare_Rejects(t *testing.T) {
	cases := []Request{
		{StartFloor: "x", DestinationFloors: "1"},
		{StartFloor: "1", DestinationFloors: ""},
		{StartFloor: "1", DestinationFloors: "a,2"},
		{StartFloor: "1", DestinationFloors: "2", Variant: "turbo"},
		{StartFloor: "1", DestinationFloors: "2", Mode: "slowmo"},
	}
	for _, req := range cases {
		e, _, err := Prepare(req, BuiltinVariants(), Config{})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Prepare(%+v): expected ErrValidation, got %v", req, err)
		}
		if e != nil {
			t.Errorf("Prepare(%+v): engine created despite invalid input", req)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRealtime, "realtime": ModeRealtime, " INSTANT ": ModeInstant} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %s, %v", in, got, err)
		}
	}
}

func TestLookupVariant(t *testing.T) {
	catalog := BuiltinVariants()
	if v, err := LookupVariant(catalog, ""); err != nil || v != Standard {
		t.Errorf("Expected Standard for empty name, got %+v, %v", v, err)
	}
	if v, err := LookupVariant(catalog, "EXPRESS"); err != nil || v != Express {
		t.Errorf("Expected Express, got %+v, %v", v, err)
	}
	if _, err := LookupVariant(catalog, "rocket"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if names := VariantNames(catalog); strings.Join(names, ",") != "express,standard" {
		t.Errorf("Unexpected names %v", names)
	}
}

func TestVariant_Validate(t *testing.T) {
	if err := Standard.Validate(); err != nil {
		t.Errorf("Standard invalid: %v", err)
	}
	if err := Express.Validate(); err != nil {
		t.Errorf("Express invalid: %v", err)
	}

	mutations := []func(*Variant){
		func(v *Variant) { v.Name = " " },
		func(v *Variant) { v.FloorTravelTime = -1 },
		func(v *Variant) { v.DoorOpenTime = -2 },
		func(v *Variant) { v.OperationTimeout = 0 },
		func(v *Variant) { v.TravelingLabel = "" },
	}
	for i, mutate := range mutations {
		v := Standard
		mutate(&v)
		if err := v.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("mutation %d: expected ErrValidation, got %v", i, err)
		}
	}
}
