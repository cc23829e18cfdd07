package model

// Sensor is a concrete sensor instance: coverage is either a set of
// static space ids, or a single mobile person id it follows.
type Sensor struct {
	ID          SensorID
	MetaID      MetaSensorID
	Description string
	IntervalSec int
	Mobile      bool
	Coverage    []SpaceID  // when !Mobile
	Follows     PersonID   // when Mobile
	Coords      *Coordinates
}

// MetaSensor is the archetype a Sensor is materialized from, with a
// precomputed reverse index of the sensor ids that reference it.
type MetaSensor struct {
	ID          MetaSensorID
	Description string
	SensorIDs   []SensorID
}
