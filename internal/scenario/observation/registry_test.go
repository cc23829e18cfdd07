package observation

import (
	"math/rand"
	"testing"

	"smartspec-scenariogen/internal/scenario/model"
)

func TestRegistryStandardIDs(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, msid := range []model.MetaSensorID{
		WiFiMetaSensorID, DoorMetaSensorID, TemperatureMetaSensorID,
		MotionMetaSensorID, WaterUsageMetaSensorID,
	} {
		if _, ok := New(msid, r); !ok {
			t.Errorf("no generator registered for metasensor %d", msid)
		}
	}
}

func TestRegistryUnknownID(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if _, ok := New(model.MetaSensorID(99), r); ok {
		t.Errorf("expected no generator registered for unused metasensor id")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on duplicate metasensor id")
		}
	}()
	reg := newRegistry()
	prev := defaultRegistry
	defaultRegistry = reg
	defer func() { defaultRegistry = prev }()

	Register(model.MetaSensorID(1), func(r *rand.Rand) interface{} { return nil })
	Register(model.MetaSensorID(1), func(r *rand.Rand) interface{} { return nil })
}
