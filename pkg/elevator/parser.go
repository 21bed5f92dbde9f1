package elevator

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloors converts a comma-separated list such as "9, 11,13" into floors.
// Blank tokens are skipped; order and duplicates are kept.
// ParseFloors는 쉼표로 구분된 층 목록을 정수 슬라이스로 변환합니다.
func ParseFloors(input string) ([]int, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: floors string is required", ErrValidation)
	}

	var floors []int
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid floor number: %s", ErrValidation, token)
		}
		floors = append(floors, n)
	}

	if len(floors) == 0 {
		return nil, fmt.Errorf("%w: at least one destination floor is required", ErrValidation)
	}
	return floors, nil
}

// ParseStartFloor parses a single floor number.
func ParseStartFloor(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: start floor must be a valid number", ErrValidation)
	}
	return n, nil
}
