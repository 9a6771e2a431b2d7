// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hook describes the events delivered to the charm.
package hook

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// Kind enumerates the kinds of event the charm reacts to.
type Kind string

const (
	ConfigChanged         Kind = "config-changed"
	UpgradeCharm          Kind = "upgrade-charm"
	UpdateStatus          Kind = "update-status"
	LeaderElected         Kind = "leader-elected"
	LeaderSettingsChanged Kind = "leader-settings-changed"

	RelationJoined   Kind = "relation-joined"
	RelationChanged  Kind = "relation-changed"
	RelationDeparted Kind = "relation-departed"
	RelationBroken   Kind = "relation-broken"
)

// IsRelation returns whether the Kind represents a relation hook.
func (kind Kind) IsRelation() bool {
	switch kind {
	case RelationJoined, RelationChanged, RelationDeparted, RelationBroken:
		return true
	}
	return false
}

// IsLeadership returns whether the Kind reports a leadership change.
func (kind Kind) IsLeadership() bool {
	return kind == LeaderElected || kind == LeaderSettingsChanged
}

var relationKinds = []Kind{RelationJoined, RelationChanged, RelationDeparted, RelationBroken}

// Info holds details of the hook being run. Not all fields are relevant
// to all Kind values.
type Info struct {
	Kind Kind

	// RelationName is the name of the endpoint the hook fired for.
	// It is only set when Kind indicates a relation hook.
	RelationName string

	// RelationId identifies the relation associated with the hook,
	// in the form "<name>:<n>". It is only set when Kind indicates a
	// relation hook.
	RelationId string

	// RemoteUnit is the name of the unit that triggered the hook. It is
	// only set when Kind indicates a relation hook other than
	// relation-broken.
	RemoteUnit string
}

// Name returns the hook name as juju would run it.
func (hi Info) Name() string {
	if hi.Kind.IsRelation() {
		return hi.RelationName + "-" + string(hi.Kind)
	}
	return string(hi.Kind)
}

// IsTeardown reports whether the hook fires while the relation itself is
// going away, so no remote unit data can be read any more.
func (hi Info) IsTeardown() bool {
	return hi.Kind == RelationBroken
}

// Validate returns an error if the info is not valid.
func (hi Info) Validate() error {
	switch hi.Kind {
	case RelationJoined, RelationChanged, RelationDeparted:
		if hi.RemoteUnit == "" {
			return fmt.Errorf("%q hook requires a remote unit", hi.Kind)
		}
		if !names.IsValidUnit(hi.RemoteUnit) {
			return errors.NotValidf("remote unit %q", hi.RemoteUnit)
		}
		fallthrough
	case RelationBroken:
		if hi.RelationName == "" {
			return fmt.Errorf("%q hook requires a relation name", hi.Kind)
		}
		return nil
	case ConfigChanged, UpgradeCharm, UpdateStatus, LeaderElected, LeaderSettingsChanged:
		return nil
	}
	return errors.NotSupportedf("hook kind %q", hi.Kind)
}

// Environment holds the parts of the hook environment needed to
// describe the hook.
type Environment struct {
	RelationId string
	RemoteUnit string
}

// Parse returns the Info for the hook called name, completed with the
// relation details from env.
func Parse(name string, env Environment) (Info, error) {
	for _, kind := range relationKinds {
		suffix := "-" + string(kind)
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		info := Info{
			Kind:         kind,
			RelationName: strings.TrimSuffix(name, suffix),
			RelationId:   env.RelationId,
			RemoteUnit:   env.RemoteUnit,
		}
		if kind == RelationBroken {
			info.RemoteUnit = ""
		}
		return info, errors.Trace(info.Validate())
	}
	info := Info{Kind: Kind(name)}
	return info, errors.Trace(info.Validate())
}
