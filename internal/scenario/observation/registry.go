package observation

import (
	"math/rand"

	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
)

// Factory builds a fresh generator instance; a new one is minted per
// metasensor so per-metasensor state (e.g. WiFi's "last seen AP" map)
// never leaks across metasensors.
type Factory func(r *rand.Rand) interface{}

// registry is the SOG factory registry: generator classes register
// themselves by MetaSensorID, a factory produces them on demand.
// Grounded on SOGFactory.hpp's registeredByID map and
// REGISTER_OBSERVATION_GENERATOR(Class, msid) macro, which bind a
// concrete generator class to a fixed metasensor id at link time
// rather than by any runtime name/kind lookup.
type registry struct {
	factories map[model.MetaSensorID]Factory
}

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{factories: make(map[model.MetaSensorID]Factory)}
}

// Register installs a factory under msid, rejecting a duplicate
// registration for the same id (spec.md §7/§9: InvariantError,
// mirroring SOGFactory::registerSOG's duplicate-registration guard).
func Register(msid model.MetaSensorID, f Factory) {
	if _, dup := defaultRegistry.factories[msid]; dup {
		panic(errs.InvariantError("duplicate sensor-observation generator registered for metasensor %d", msid))
	}
	defaultRegistry.factories[msid] = f
}

// New builds a generator for msid, or (nil, false) if nothing is
// registered under it.
func New(msid model.MetaSensorID, r *rand.Rand) (interface{}, bool) {
	f, ok := defaultRegistry.factories[msid]
	if !ok {
		return nil, false
	}
	return f(r), true
}

// Standard metasensor ids the built-in generators register under.
// WiFi/Door/Temperature reuse the original's own obsgen.cpp wiring
// (REGISTER_OBSERVATION_GENERATOR(..., 1/2/3)); Motion and WaterUsage
// have generator classes in the original source
// (MotionDetectorObservationGenerator.hpp,
// WaterUsageObservationGenerator.hpp) but were never wired into that
// particular demo binary, so they are assigned the next two ids here.
const (
	WiFiMetaSensorID        model.MetaSensorID = 1
	DoorMetaSensorID        model.MetaSensorID = 2
	TemperatureMetaSensorID model.MetaSensorID = 3
	MotionMetaSensorID      model.MetaSensorID = 4
	WaterUsageMetaSensorID  model.MetaSensorID = 5
)

func init() {
	Register(WiFiMetaSensorID, func(r *rand.Rand) interface{} { return newWiFiGenerator(r) })
	Register(DoorMetaSensorID, func(r *rand.Rand) interface{} { return newDoorGenerator(r) })
	Register(TemperatureMetaSensorID, func(r *rand.Rand) interface{} { return newTemperatureGenerator() })
	Register(MotionMetaSensorID, func(r *rand.Rand) interface{} { return newMotionGenerator(r) })
	Register(WaterUsageMetaSensorID, func(r *rand.Rand) interface{} { return newWaterUsageGenerator(r) })
}
