package dataloader

import (
	"time"

	"smartspec-scenariogen/internal/scenario/constraints"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/graph"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/registry"
	"smartspec-scenariogen/internal/scenario/trajectory"
)

// World is the fully-wired aggregate of every registry, the spaces
// graph, the trajectory store, and the constraint engine -- the Go
// analog of the original's DataLoader.hpp.
type World struct {
	Config *Config

	Spaces      *registry.Registry[*model.Space, model.SpaceID]
	MetaSensors *registry.Registry[*model.MetaSensor, model.MetaSensorID]
	Sensors     *registry.Registry[*model.Sensor, model.SensorID]
	MetaPeople  *registry.Registry[*model.MetaPerson, model.MetaPersonID]
	People      *registry.Registry[*model.Person, model.PersonID]
	MetaEvents  *registry.Registry[*model.MetaEvent, model.MetaEventID]
	Events      *registry.Registry[*model.Event, model.EventID]

	Graph        *graph.SpacesGraph
	Trajectories *trajectory.Store
	Constraints  *constraints.Engine

	StartDate time.Time
	EndDate   time.Time
}

// LoadWorld reads every section of the config's [filepaths] table and
// assembles a World, per spec.md §6's file-path conventions. Any path
// equal to "none" is skipped (the trajectories/constraints inputs are
// optional).
func LoadWorld(cfg *Config) (*World, error) {
	w := &World{Config: cfg}

	spacesPath, err := cfg.Get("filepaths", "spaces")
	if err != nil {
		return nil, err
	}
	spaces, coords, err := LoadSpaces(spacesPath)
	if err != nil {
		return nil, err
	}
	w.Spaces = spaces

	if p := cfg.GetOr("filepaths", "metasensors", "none"); !IsNone(p) {
		metaSensors, sensors, err := LoadMetaSensors(p)
		if err != nil {
			return nil, err
		}
		w.MetaSensors, w.Sensors = metaSensors, sensors
	}

	metaPeoplePath, err := cfg.Get("filepaths", "metapeople")
	if err != nil {
		return nil, err
	}
	w.MetaPeople, err = LoadMetaPeople(metaPeoplePath)
	if err != nil {
		return nil, err
	}

	metaEventsPath, err := cfg.Get("filepaths", "metaevents")
	if err != nil {
		return nil, err
	}
	w.MetaEvents, err = LoadMetaEvents(metaEventsPath)
	if err != nil {
		return nil, err
	}

	if p := cfg.GetOr("filepaths", "people", "none"); !IsNone(p) {
		w.People, err = LoadPeople(p)
		if err != nil {
			return nil, err
		}
	} else {
		w.People = registry.New[*model.Person, model.PersonID](func(p *model.Person) model.PersonID { return p.ID })
	}

	if p := cfg.GetOr("filepaths", "events", "none"); !IsNone(p) {
		w.Events, err = LoadEvents(p)
		if err != nil {
			return nil, err
		}
	} else {
		w.Events = registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID })
	}

	g := graph.New()
	for _, s := range spaces.All() {
		g.AddNode(s.ID, s.Coords, s.Neighbors)
	}
	cachePath := cfg.GetOr("filepaths", "path-cache", "none")
	if !IsNone(cachePath) {
		if err := g.LoadCache(cachePath); err != nil {
			return nil, err
		}
	}
	if !g.IsBuilt() {
		g.BuildAllPairs()
	}
	w.Graph = g

	w.Trajectories = trajectory.New(g, coords)
	if p := cfg.GetOr("filepaths", "metatrajectories", "none"); !IsNone(p) {
		if err := LoadMetaTrajectories(p, w.Trajectories); err != nil {
			return nil, err
		}
	}

	w.Constraints = constraints.New()
	if p := cfg.GetOr("filepaths", "constraints", "none"); !IsNone(p) {
		if err := LoadConstraints(p, w.Constraints); err != nil {
			return nil, err
		}
	}

	startStr, err := cfg.Get("synthetic-data-generator", "start")
	if err != nil {
		return nil, err
	}
	endStr, err := cfg.Get("synthetic-data-generator", "end")
	if err != nil {
		return nil, err
	}
	w.StartDate, err = parseDate(startStr)
	if err != nil {
		return nil, err
	}
	w.EndDate, err = parseDate(endStr)
	if err != nil {
		return nil, err
	}
	if w.EndDate.Before(w.StartDate) {
		return nil, errs.InvariantError("end-date %s precedes start-date %s", endStr, startStr)
	}

	return w, nil
}

// SaveCache persists the spaces graph's shortest-path cache back to
// disk, if a path-cache filepath was configured.
func (w *World) SaveCache() error {
	p := w.Config.GetOr("filepaths", "path-cache", "none")
	if IsNone(p) {
		return nil
	}
	return w.Graph.WriteCache(p)
}
