// Package variants loads extra elevator variants from TOML or YAML files.
// 변형(variant) 설정 파일을 읽어 엘리베이터 카탈로그를 구성합니다.
//
// Example (TOML):
//
//	[variants.freight]
//	floor_travel_time = 15
//	passenger_transfer_time = 8
//	traveling_label = "traveling-freight"
//
// Omitted fields inherit from the built-in variant of the same name, or
// from elevator.Standard with the label "traveling-<name>".
package variants

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"go-elevator-route-simulator/pkg/elevator"
)

// entry mirrors elevator.Variant with optional fields.
type entry struct {
	FloorTravelTime       *int    `toml:"floor_travel_time" yaml:"floor_travel_time"`
	DoorOpenTime          *int    `toml:"door_open_time" yaml:"door_open_time"`
	DoorCloseTime         *int    `toml:"door_close_time" yaml:"door_close_time"`
	PassengerTransferTime *int    `toml:"passenger_transfer_time" yaml:"passenger_transfer_time"`
	OperationTimeout      *int    `toml:"operation_timeout" yaml:"operation_timeout"`
	TravelingLabel        *string `toml:"traveling_label" yaml:"traveling_label"`
}

type file struct {
	Variants map[string]entry `toml:"variants" yaml:"variants"`
}

// Load reads path and returns the built-in variants overlaid with the
// variants defined in the file. Every variant is validated.
// Load는 기본 변형에 파일에 정의된 변형을 덮어써서 반환합니다.
func Load(path string) (map[string]elevator.Variant, error) {
	var f file

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		if err := yaml.NewDecoder(fh).Decode(&f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported variants file extension %q", ext)
	}

	catalog := elevator.BuiltinVariants()
	for name, en := range f.Variants {
		key := strings.ToLower(strings.TrimSpace(name))
		base, ok := catalog[key]
		if !ok {
			base = elevator.Standard
			base.Name = key
			base.TravelingLabel = elevator.Status("traveling-" + key)
		}
		v := en.apply(base)
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		catalog[v.Name] = v
	}

	slog.Info("Variants loaded", "path", path, "count", len(f.Variants), "names", elevator.VariantNames(catalog))
	return catalog, nil
}

// apply overrides the fields of base that the entry sets.
func (en entry) apply(base elevator.Variant) elevator.Variant {
	v := base
	if en.FloorTravelTime != nil {
		v.FloorTravelTime = *en.FloorTravelTime
	}
	if en.DoorOpenTime != nil {
		v.DoorOpenTime = *en.DoorOpenTime
	}
	if en.DoorCloseTime != nil {
		v.DoorCloseTime = *en.DoorCloseTime
	}
	if en.PassengerTransferTime != nil {
		v.PassengerTransferTime = *en.PassengerTransferTime
	}
	if en.OperationTimeout != nil {
		v.OperationTimeout = *en.OperationTimeout
	}
	if en.TravelingLabel != nil {
		v.TravelingLabel = elevator.Status(*en.TravelingLabel)
	}
	return v
}
