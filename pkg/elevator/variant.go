package elevator

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is a named set of timing constants, in time units.
// Variant는 시간 단위로 표현된 타이밍 상수 집합입니다.
// 엔진은 이 값만 읽으며 변형별 분기를 두지 않습니다.
type Variant struct {
	Name                  string
	FloorTravelTime       int    // 한 층 이동 시간
	DoorOpenTime          int    // 문 열림 시간
	DoorCloseTime         int    // 문 닫힘 시간
	PassengerTransferTime int    // 승객 승하차 시간
	OperationTimeout      int    // 단계별 최대 허용 시간
	TravelingLabel        Status // 이동 중 표시 상태
}

var (
	Standard = Variant{
		Name:                  "standard",
		FloorTravelTime:       10,
		DoorOpenTime:          2,
		DoorCloseTime:         2,
		PassengerTransferTime: 4,
		OperationTimeout:      15,
		TravelingLabel:        StatusTraveling,
	}

	Express = Variant{
		Name:                  "express",
		FloorTravelTime:       5,
		DoorOpenTime:          2,
		DoorCloseTime:         2,
		PassengerTransferTime: 4,
		OperationTimeout:      15,
		TravelingLabel:        StatusTravelingExpress,
	}
)

// Validate checks that every duration is usable.
func (v Variant) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: variant name is required", ErrValidation)
	}
	if v.FloorTravelTime <= 0 {
		return fmt.Errorf("%w: variant %q: floor travel time must be > 0", ErrValidation, v.Name)
	}
	if v.DoorOpenTime < 0 || v.DoorCloseTime < 0 || v.PassengerTransferTime < 0 {
		return fmt.Errorf("%w: variant %q: door and transfer times must be >= 0", ErrValidation, v.Name)
	}
	if v.OperationTimeout <= 0 {
		return fmt.Errorf("%w: variant %q: operation timeout must be > 0", ErrValidation, v.Name)
	}
	if v.TravelingLabel == "" {
		return fmt.Errorf("%w: variant %q: traveling label is required", ErrValidation, v.Name)
	}
	return nil
}

// BuiltinVariants returns a fresh catalogue holding Standard and Express.
func BuiltinVariants() map[string]Variant {
	return map[string]Variant{
		Standard.Name: Standard,
		Express.Name:  Express,
	}
}

// LookupVariant finds a variant by case-insensitive name.
func LookupVariant(variants map[string]Variant, name string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Standard.Name
	}
	if v, ok := variants[key]; ok {
		return v, nil
	}
	for k, v := range variants {
		if strings.EqualFold(k, key) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: unknown elevator variant %q", ErrValidation, name)
}

// VariantNames returns the sorted catalogue keys.
func VariantNames(variants map[string]Variant) []string {
	names := make([]string, 0, len(variants))
	for k := range variants {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
