// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenvtest provides an in-memory hook environment for tests.
package hookenvtest

import (
	"sort"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/hook"
	"github.com/juju/neutron-contrail/hookenv"
)

// StatusCall records a call to StatusSet.
type StatusCall struct {
	Status  hookenv.Status
	Message string
}

// Fake implements the hook tool operations of hookenv.Context in memory.
// Units removed with DepartUnit stop being listed but their settings stay
// readable, the same as during a real relation-departed hook.
type Fake struct {
	// Hook is the hook being simulated; it supplies the default relation
	// and remote unit for RelationGet.
	Hook hook.Info

	Leader         bool
	LeaderSettings map[string]string

	// Published holds the settings written with RelationSet, keyed by
	// relation id.
	Published map[string]map[string]string

	Statuses []StatusCall

	members  map[string]set.Strings
	settings map[string]map[string]map[string]string
}

// NewFake returns an empty hook environment.
func NewFake() *Fake {
	return &Fake{
		LeaderSettings: make(map[string]string),
		Published:      make(map[string]map[string]string),
		members:        make(map[string]set.Strings),
		settings:       make(map[string]map[string]map[string]string),
	}
}

// AddRelation establishes a relation with no units yet.
func (f *Fake) AddRelation(relationId string) {
	if _, ok := f.members[relationId]; !ok {
		f.members[relationId] = set.NewStrings()
		f.settings[relationId] = make(map[string]map[string]string)
	}
}

// JoinUnit adds unit to the relation with the supplied settings.
func (f *Fake) JoinUnit(relationId, unit string, settings map[string]string) {
	f.AddRelation(relationId)
	f.members[relationId].Add(unit)
	f.SetUnitSettings(relationId, unit, settings)
}

// SetUnitSettings replaces the settings published by unit.
func (f *Fake) SetUnitSettings(relationId, unit string, settings map[string]string) {
	f.AddRelation(relationId)
	copied := make(map[string]string, len(settings))
	for k, v := range settings {
		copied[k] = v
	}
	f.settings[relationId][unit] = copied
}

// DepartUnit removes unit from the relation's member list.
func (f *Fake) DepartUnit(relationId, unit string) {
	if members, ok := f.members[relationId]; ok {
		members.Remove(unit)
	}
}

// BreakRelation removes the relation and all its data.
func (f *Fake) BreakRelation(relationId string) {
	delete(f.members, relationId)
	delete(f.settings, relationId)
}

// RelationIds is part of the hook environment.
func (f *Fake) RelationIds(name string) ([]string, error) {
	var ids []string
	for id := range f.members {
		if strings.HasPrefix(id, name+":") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// RelatedUnits is part of the hook environment.
func (f *Fake) RelatedUnits(relationId string) ([]string, error) {
	members, ok := f.members[relationId]
	if !ok {
		return nil, errors.NotFoundf("relation %q", relationId)
	}
	return members.SortedValues(), nil
}

// PeerUnits is part of the hook environment.
func (f *Fake) PeerUnits(name string) (set.Strings, error) {
	units := set.NewStrings()
	ids, _ := f.RelationIds(name)
	for _, id := range ids {
		units = units.Union(f.members[id])
	}
	return units, nil
}

// RelationGet is part of the hook environment.
func (f *Fake) RelationGet(key, unit, relationId string) (string, error) {
	if relationId == "" {
		relationId = f.Hook.RelationId
	}
	if unit == "" {
		unit = f.Hook.RemoteUnit
	}
	relation, ok := f.settings[relationId]
	if !ok {
		return "", errors.NotFoundf("relation %q", relationId)
	}
	return relation[unit][key], nil
}

// RelationSet is part of the hook environment.
func (f *Fake) RelationSet(relationId string, settings map[string]string) error {
	if relationId == "" {
		relationId = f.Hook.RelationId
	}
	published, ok := f.Published[relationId]
	if !ok {
		published = make(map[string]string)
		f.Published[relationId] = published
	}
	for k, v := range settings {
		if v == "" {
			delete(published, k)
			continue
		}
		published[k] = v
	}
	return nil
}

// IsLeader is part of the hook environment.
func (f *Fake) IsLeader() (bool, error) {
	return f.Leader, nil
}

// LeaderGet is part of the hook environment.
func (f *Fake) LeaderGet(key string) (string, error) {
	return f.LeaderSettings[key], nil
}

// LeaderSet is part of the hook environment.
func (f *Fake) LeaderSet(settings map[string]string) error {
	if !f.Leader {
		return errors.NotSupportedf("leader-set on non-leader unit")
	}
	for k, v := range settings {
		if v == "" {
			delete(f.LeaderSettings, k)
			continue
		}
		f.LeaderSettings[k] = v
	}
	return nil
}

// StatusSet is part of the hook environment.
func (f *Fake) StatusSet(status hookenv.Status, message string) error {
	f.Statuses = append(f.Statuses, StatusCall{Status: status, Message: message})
	return nil
}
