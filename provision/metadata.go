// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package provision

import (
	"strings"

	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/contrail"
	"github.com/juju/neutron-contrail/credentials"
)

const (
	// MetadataProvisionedKey is the leader setting recording whether the
	// local metadata service is registered with the api.
	MetadataProvisionedKey = "local-metadata-provisioned"

	// LocalMetadataOption enables the local metadata service.
	LocalMetadataOption = "local-metadata-server"

	// PeerRelation is the peer relation joining all units of the
	// application.
	PeerRelation = "cluster"
)

// Flag is the value of the metadata provisioned leader setting. An unset
// setting means no decision has been recorded yet.
type Flag string

const (
	FlagAbsent Flag = ""
	FlagFalse  Flag = "false"
	FlagTrue   Flag = "true"
)

// ParseFlag interprets a leader setting value.
func ParseFlag(value string) Flag {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return FlagAbsent
	case "true":
		return FlagTrue
	}
	return FlagFalse
}

// MetadataConfig holds the dependencies of a MetadataReconciler.
type MetadataConfig struct {
	State       LocalState
	Leader      LeaderState
	Peers       PeerRelations
	Credentials CredentialResolver
	Provisioner Provisioner
	Executor    Executor
}

// Validate returns an error if the config cannot be used.
func (config MetadataConfig) Validate() error {
	if config.State == nil {
		return errors.NotValidf("nil State")
	}
	if config.Leader == nil {
		return errors.NotValidf("nil Leader")
	}
	if config.Peers == nil {
		return errors.NotValidf("nil Peers")
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
	return nil
}

// MetadataReconciler registers the local metadata service, which is shared
// by the whole application. Only the leader acts.
type MetadataReconciler struct {
	config MetadataConfig
}

// NewMetadataReconciler returns a MetadataReconciler for config.
func NewMetadataReconciler(config MetadataConfig) (*MetadataReconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &MetadataReconciler{config: config}, nil
}

// Reconcile brings the metadata service registration in line with the
// local metadata option and the vrouter provisioned flag.
//
// When the vrouter is no longer provisioned and the peer relation has no
// members, the leader may itself be going away. The registration is then
// left in place and the flag reset to absent, so that a later leader makes
// its own decision.
func (r *MetadataReconciler) Reconcile() (Action, error) {
	leader, err := r.config.Leader.IsLeader()
	if err != nil {
		return NoAction, errors.Trace(err)
	}
	if !leader {
		return NoAction, nil
	}
	value, err := r.config.Leader.LeaderGet(MetadataProvisionedKey)
	if err != nil {
		return NoAction, errors.Trace(err)
	}
	flag := ParseFlag(value)
	vrouter := r.config.State.Bool(VRouterProvisionedKey)
	enabled := r.config.State.Bool(LocalMetadataOption)

	switch {
	case !vrouter && flag == FlagTrue:
		peers, err := r.config.Peers.PeerUnits(PeerRelation)
		if err != nil {
			return NoAction, errors.Trace(err)
		}
		if peers.IsEmpty() {
			logger.Infof("no peers left, resetting %s", MetadataProvisionedKey)
			if err := r.setFlag(FlagAbsent); err != nil {
				return NoAction, errors.Trace(err)
			}
			return Reset, nil
		}
		return r.unprovision()
	case vrouter && enabled && flag != FlagTrue:
		creds, err := r.config.Credentials.Current()
		if err != nil {
			return NoAction, errors.Annotate(err, "provisioning local metadata")
		}
		if err := r.run(contrail.Add, creds); err != nil {
			return NoAction, errors.Annotate(err, "provisioning local metadata")
		}
		if err := r.setFlag(FlagTrue); err != nil {
			return NoAction, errors.Trace(err)
		}
		return Provisioned, nil
	case vrouter && !enabled && flag == FlagTrue:
		return r.unprovision()
	}
	return NoAction, nil
}

func (r *MetadataReconciler) unprovision() (Action, error) {
	creds, err := r.config.Credentials.Teardown()
	switch {
	case errors.Is(err, credentials.ErrRelationBroken):
		logger.Infof("relation broken, not removing local metadata from the api")
	case err != nil:
		return NoAction, errors.Annotate(err, "unprovisioning local metadata")
	default:
		if err := r.run(contrail.Del, creds); err != nil {
			return NoAction, errors.Annotate(err, "unprovisioning local metadata")
		}
	}
	if err := r.setFlag(FlagFalse); err != nil {
		return NoAction, errors.Trace(err)
	}
	return Unprovisioned, nil
}

func (r *MetadataReconciler) run(op contrail.Op, creds credentials.Bundle) error {
	return r.config.Executor.Run(string(op)+" local metadata", func() error {
		return r.config.Provisioner.ProvisionLinkLocal(op, contrail.Metadata, creds)
	})
}

func (r *MetadataReconciler) setFlag(flag Flag) error {
	return errors.Trace(r.config.Leader.LeaderSet(map[string]string{
		MetadataProvisionedKey: string(flag),
	}))
}
