// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/contrail"
	"github.com/juju/neutron-contrail/credentials"
)

// VRouterProvisionedKey is the unit state key recording whether the
// vrouter is registered with the api.
const VRouterProvisionedKey = "vrouter-provisioned"

// VRouterConfig holds the dependencies of a VRouterReconciler.
type VRouterConfig struct {
	State       LocalState
	Readiness   Readiness
	Credentials CredentialResolver
	Provisioner Provisioner
	Executor    Executor
	Node        NodeResolver
}

// Validate returns an error if the config cannot be used.
func (config VRouterConfig) Validate() error {
	if config.State == nil {
		return errors.NotValidf("nil State")
	}
	if config.Readiness == nil {
		return errors.NotValidf("nil Readiness")
	}
	if config.Credentials == nil {
		return errors.NotValidf("nil Credentials")
	}
	if config.Provisioner == nil {
		return errors.NotValidf("nil Provisioner")
	}
	if config.Executor == nil {
		return errors.NotValidf("nil Executor")
	}
	if config.Node == nil {
		return errors.NotValidf("nil Node")
	}
	return nil
}

// VRouterReconciler registers the vrouter once every dependency is ready
// and removes it once one of them goes away.
type VRouterReconciler struct {
	config VRouterConfig
}

// NewVRouterReconciler returns a VRouterReconciler for config.
func NewVRouterReconciler(config VRouterConfig) (*VRouterReconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &VRouterReconciler{config: config}, nil
}

// Reconcile provisions the vrouter when all dependencies are ready and it
// is not provisioned, and unprovisions it when it is provisioned and a
// dependency is not ready. The flag is only changed once the command has
// succeeded.
func (r *VRouterReconciler) Reconcile() (Action, error) {
	ready := r.config.Readiness.AllReady()
	provisioned := r.config.State.Bool(VRouterProvisionedKey)
	switch {
	case ready && !provisioned:
		if err := r.run(contrail.Add); err != nil {
			return NoAction, errors.Annotate(err, "provisioning vrouter")
		}
		r.config.State.SetBool(VRouterProvisionedKey, true)
		return Provisioned, nil
	case !ready && provisioned:
		if err := r.run(contrail.Del); err != nil {
			return NoAction, errors.Annotate(err, "unprovisioning vrouter")
		}
		r.config.State.SetBool(VRouterProvisionedKey, false)
		return Unprovisioned, nil
	}
	return NoAction, nil
}

func (r *VRouterReconciler) run(op contrail.Op) error {
	var (
		creds credentials.Bundle
		err   error
	)
	if op == contrail.Add {
		creds, err = r.config.Credentials.Current()
	} else {
		creds, err = r.config.Credentials.Teardown()
	}
	if errors.Is(err, credentials.ErrRelationBroken) {
		logger.Infof("relation broken, not removing vrouter from the api")
		return nil
	}
	if err != nil {
		return errors.Trace(err)
	}
	node, err := r.config.Node.Node()
	if err != nil {
		return errors.Trace(err)
	}
	return r.config.Executor.Run(string(op)+" vrouter", func() error {
		return r.config.Provisioner.ProvisionVRouter(op, node, creds)
	})
}
