// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package readiness tracks whether the upstream services the vrouter
// depends on are available, and records the result in unit state.
package readiness

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("neutroncontrail.readiness")

// Source is a relation endpoint that can satisfy a dependency.
type Source struct {
	// Relation is the endpoint name.
	Relation string

	// Field is the setting a remote unit must have published before it
	// counts. An empty Field means the unit's presence is enough.
	Field string
}

// Dependency describes one upstream service.
type Dependency struct {
	// Name is a short human readable name used in status messages.
	Name string

	// FlagKey is the unit state key holding the readiness flag.
	FlagKey string

	// OverrideKey names a charm option which, when set, makes the
	// dependency ready regardless of relations.
	OverrideKey string

	// Sources lists the endpoints that can satisfy the dependency.
	Sources []Source
}

var (
	// API is the contrail configuration API.
	API = Dependency{
		Name:        "contrail-api",
		FlagKey:     "contrail-api-ready",
		OverrideKey: "contrail-api-ip",
		Sources:     []Source{{Relation: "contrail-api", Field: "port"}},
	}

	// Control is the contrail control plane, reachable either through
	// discovery or by relating to the control nodes directly.
	Control = Dependency{
		Name:        "contrail-control",
		FlagKey:     "control-node-ready",
		OverrideKey: "discovery-server-ip",
		Sources: []Source{
			{Relation: "contrail-discovery", Field: "port"},
			{Relation: "control-node"},
		},
	}

	// Identity is the keystone admin service.
	Identity = Dependency{
		Name:    "identity",
		FlagKey: "identity-admin-ready",
		Sources: []Source{{Relation: "identity-admin", Field: "service_hostname"}},
	}

	// All lists every dependency in the order they are reported.
	All = []Dependency{API, Control, Identity}
)

// ForRelation returns the dependency satisfied by the named endpoint.
func ForRelation(relation string) (Dependency, bool) {
	for _, dep := range All {
		for _, source := range dep.Sources {
			if source.Relation == relation {
				return dep, true
			}
		}
	}
	return Dependency{}, false
}

// RequiredField returns the field the dependency needs from units of the
// named endpoint.
func (dep Dependency) RequiredField(relation string) string {
	for _, source := range dep.Sources {
		if source.Relation == relation {
			return source.Field
		}
	}
	return ""
}

// RelationData gives read access to relation membership and settings.
type RelationData interface {
	RelationIds(name string) ([]string, error)
	RelatedUnits(relationId string) ([]string, error)
	RelationGet(key, unit, relationId string) (string, error)
}

// State is the unit state the flags are kept in.
type State interface {
	String(key string) string
	Bool(key string) bool
	SetBool(key string, value bool)
}

// Tracker derives the readiness flags.
type Tracker struct {
	relations RelationData
	state     State
}

// NewTracker returns a Tracker reading relations and recording flags in
// state.
func NewTracker(relations RelationData, state State) *Tracker {
	return &Tracker{relations: relations, state: state}
}

// Update recomputes the flag for dep from the configured override and the
// units currently present on its relations, stores it and returns it.
// A unit that is present but has not published the required field does
// not make the dependency ready.
func (t *Tracker) Update(dep Dependency) (bool, error) {
	ready, err := t.compute(dep)
	if err != nil {
		return false, errors.Annotatef(err, "checking %s readiness", dep.Name)
	}
	if was := t.state.Bool(dep.FlagKey); was != ready {
		logger.Infof("%s ready: %v", dep.Name, ready)
	}
	t.state.SetBool(dep.FlagKey, ready)
	return ready, nil
}

func (t *Tracker) compute(dep Dependency) (bool, error) {
	if dep.OverrideKey != "" && t.state.String(dep.OverrideKey) != "" {
		return true, nil
	}
	for _, source := range dep.Sources {
		ids, err := t.relations.RelationIds(source.Relation)
		if err != nil {
			return false, errors.Trace(err)
		}
		for _, id := range ids {
			units, err := t.relations.RelatedUnits(id)
			if err != nil {
				return false, errors.Trace(err)
			}
			for _, unit := range units {
				if source.Field == "" {
					return true, nil
				}
				value, err := t.relations.RelationGet(source.Field, unit, id)
				if err != nil {
					return false, errors.Trace(err)
				}
				if value != "" {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// Ready reports the stored flag for dep.
func (t *Tracker) Ready(dep Dependency) bool {
	return t.state.Bool(dep.FlagKey)
}

// AllReady reports whether every dependency is ready.
func (t *Tracker) AllReady() bool {
	return len(t.Missing()) == 0
}

// Missing returns the names of the dependencies that are not ready.
func (t *Tracker) Missing() []string {
	var missing []string
	for _, dep := range All {
		if !t.Ready(dep) {
			missing = append(missing, dep.Name)
		}
	}
	return missing
}
