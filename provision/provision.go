// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package provision decides when the vrouter and the local metadata
// service are registered with, or removed from, the contrail api.
//
// Each reconciler is evaluated after every event that could change its
// inputs. Decisions are made from persisted state only, so evaluating a
// reconciler again without a change in state makes no external call.
package provision

import (
	"github.com/juju/collections/set"
	"github.com/juju/loggo"

	"github.com/juju/neutron-contrail/contrail"
	"github.com/juju/neutron-contrail/credentials"
)

var logger = loggo.GetLogger("neutroncontrail.provision")

// Action reports what a reconciliation pass did.
type Action string

const (
	// NoAction means no guard was satisfied.
	NoAction Action = ""

	// Provisioned means the resource was registered.
	Provisioned Action = "provisioned"

	// Unprovisioned means the resource was removed and the flag cleared.
	Unprovisioned Action = "unprovisioned"

	// Reset means the metadata flag was reset to absent without calling
	// out to the api.
	Reset Action = "reset"
)

// LocalState is the node-local store holding the flags.
type LocalState interface {
	Bool(key string) bool
	SetBool(key string, value bool)
}

// Readiness reports whether every upstream dependency is available.
type Readiness interface {
	AllReady() bool
}

// LeaderState gives access to the settings shared by the application
// and owned by the leader.
type LeaderState interface {
	IsLeader() (bool, error)
	LeaderGet(key string) (string, error)
	LeaderSet(settings map[string]string) error
}

// PeerRelations lists the units on the peer relation.
type PeerRelations interface {
	PeerUnits(name string) (set.Strings, error)
}

// CredentialResolver returns the credentials used to call the api.
// Teardown is used when removing resources, since the dependency being
// removed may no longer publish its data.
type CredentialResolver interface {
	Current() (credentials.Bundle, error)
	Teardown() (credentials.Bundle, error)
}

// Provisioner runs the provisioning commands.
type Provisioner interface {
	ProvisionVRouter(op contrail.Op, node contrail.Node, creds credentials.Bundle) error
	ProvisionLinkLocal(op contrail.Op, svc contrail.LinkLocal, creds credentials.Bundle) error
}

// Executor retries a failing operation.
type Executor interface {
	Run(name string, f func() error) error
}

// NodeResolver identifies the node being provisioned.
type NodeResolver interface {
	Node() (contrail.Node, error)
}
