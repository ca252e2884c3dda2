package worldgen

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/caolo-go/sim/internal/world"
)

type scenario struct {
	Name          string `yaml:"name"`
	Radius        int32  `yaml:"radius"`
	RoomRadius    int32  `yaml:"room_radius"`
	MinBridgeLen  int32  `yaml:"min_bridge_len"`
	MaxBridgeLen  int32  `yaml:"max_bridge_len"`
	Seed          uint64 `yaml:"seed"`
	WantRoomCount int    `yaml:"want_room_count"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("read scenarios fixture: %v", err)
	}
	var out []scenario
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("parse scenarios fixture: %v", err)
	}
	return out
}

func TestGenerateScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			w := world.NewWorld(sc.RoomRadius)
			params := Params{
				Radius:       sc.Radius,
				RoomRadius:   sc.RoomRadius,
				MinBridgeLen: sc.MinBridgeLen,
				MaxBridgeLen: sc.MaxBridgeLen,
				Seed:         sc.Seed,
			}
			if err := Generate(w, params); err != nil {
				t.Fatalf("generate: %v", err)
			}
			if w.RoomComponents.Len() != sc.WantRoomCount {
				t.Fatalf("expected %d rooms, got %d", sc.WantRoomCount, w.RoomComponents.Len())
			}
		})
	}
}
