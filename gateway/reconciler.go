// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package gateway

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("neutroncontrail.gateway")

const (
	// DeclaredKey is the charm option holding the declared gateways.
	DeclaredKey = "virtual-gateways"

	// AppliedKey is the unit state key holding the last applied
	// gateways.
	AppliedKey = "virtual-gateways-prev"
)

// Actions are the operating system changes made while reconciling.
type Actions interface {
	// InterfacesDown takes the named interfaces down.
	InterfacesDown(names []string) error

	// InterfacesUp brings the named interfaces up.
	InterfacesUp(names []string) error

	// WriteInterfaces replaces the interface definitions with those
	// for spec, reporting whether anything changed.
	WriteInterfaces(spec Spec) (bool, error)

	// EnableForwarding turns on forwarding through the gateways.
	EnableForwarding() error

	// DisableForwarding turns forwarding off once no gateway is left.
	DisableForwarding() error
}

// State holds the declared and applied gateways.
type State interface {
	String(key string) string
	SetString(key, value string)
}

// Result describes a reconciliation pass.
type Result struct {
	Down []string
	Up   []string

	// Written is true when the interface definitions changed.
	Written bool
}

// Reconciler applies the declared gateways.
type Reconciler struct {
	state   State
	actions Actions
}

// NewReconciler returns a Reconciler.
func NewReconciler(state State, actions Actions) *Reconciler {
	return &Reconciler{state: state, actions: actions}
}

// Reconcile moves the node from the applied gateways to the declared
// ones. Interfaces are taken down before the definitions are rewritten
// and brought up after, and only interfaces whose subnets changed are
// touched. An invalid declaration is rejected before anything is changed.
func (r *Reconciler) Reconcile() (Result, error) {
	declaredRaw := r.state.String(DeclaredKey)
	declared, err := Parse(declaredRaw)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	applied, err := Parse(r.state.String(AppliedKey))
	if err != nil {
		// Older charms stored declarations that are rejected now.
		logger.Warningf("ignoring unreadable applied virtual gateways: %v", err)
		applied = nil
	}
	if err == nil && declared.Equal(applied) {
		r.state.SetString(AppliedKey, declaredRaw)
		return Result{}, nil
	}

	var result Result
	result.Down, result.Up = Diff(applied.Mapping(), declared.Mapping())
	if len(result.Down) > 0 {
		logger.Infof("taking down %v", result.Down)
		if err := r.actions.InterfacesDown(result.Down); err != nil {
			return Result{}, errors.Trace(err)
		}
	}
	if result.Written, err = r.actions.WriteInterfaces(declared); err != nil {
		return Result{}, errors.Trace(err)
	}
	if len(result.Up) > 0 {
		logger.Infof("bringing up %v", result.Up)
		if err := r.actions.InterfacesUp(result.Up); err != nil {
			return Result{}, errors.Trace(err)
		}
	}
	if len(declared) > 0 {
		err = r.actions.EnableForwarding()
	} else {
		err = r.actions.DisableForwarding()
	}
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	r.state.SetString(AppliedKey, declaredRaw)
	return result, nil
}
