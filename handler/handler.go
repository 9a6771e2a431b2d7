// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package handler runs the charm's hooks. Each hook updates the readiness
// flags it can affect, evaluates the reconcilers, rewrites the
// configuration files whose inputs changed and restarts the services that
// read them. Unit state is saved only when a hook succeeds, so a failed
// hook can be retried from the same starting point.
package handler

import (
	"github.com/google/uuid"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/neutron-contrail/conffile"
	"github.com/juju/neutron-contrail/credentials"
	"github.com/juju/neutron-contrail/gateway"
	"github.com/juju/neutron-contrail/hook"
	"github.com/juju/neutron-contrail/hookenv"
	"github.com/juju/neutron-contrail/provision"
	"github.com/juju/neutron-contrail/readiness"
	"github.com/juju/neutron-contrail/service"
)

var logger = loggo.GetLogger("neutroncontrail.handler")

// restartMap lists the services reading each configuration file.
var restartMap = service.RestartMap{
	conffile.AgentPath:   {"contrail-vrouter-agent"},
	conffile.NodeMgrPath: {"contrail-vrouter-nodemgr"},
}

// Environment is the hook environment.
type Environment interface {
	RelationIds(name string) ([]string, error)
	RelatedUnits(relationId string) ([]string, error)
	RelationGet(key, unit, relationId string) (string, error)
	RelationSet(relationId string, settings map[string]string) error
	PeerUnits(name string) (set.Strings, error)
	IsLeader() (bool, error)
	LeaderGet(key string) (string, error)
	LeaderSet(settings map[string]string) error
	StatusSet(status hookenv.Status, message string) error
}

// State is the unit's node-local configuration store.
type State interface {
	String(key string) string
	Bool(key string) bool
	Int(key string) (int, bool)
	PreviousString(key string) string
	PreviousInt(key string) (int, bool)
	SetBool(key string, value bool)
	SetString(key, value string)
	Remove(key string)
	Save() error
}

// ConfigWriter writes the service configuration files.
type ConfigWriter interface {
	WriteVNCAPI(conf conffile.VNCAPI) (bool, error)
	WriteAgent(conf conffile.Agent) (bool, error)
	WriteNodeMgr(conf conffile.NodeMgr) (bool, error)
}

// Restarter restarts system services.
type Restarter interface {
	Restart(names ...string) error
}

// Config holds the dependencies of a Handler.
type Config struct {
	Hook  hook.Info
	Env   Environment
	State State

	Files       ConfigWriter
	Gateways    gateway.Actions
	Interfaces  conffile.Interfaces
	Services    Restarter
	Provisioner provision.Provisioner
	Executor    provision.Executor
	Node        provision.NodeResolver

	// NewSecret generates the local metadata secret. uuid.NewString is
	// used when nil.
	NewSecret func() string

	// LookupHost resolves the host names published by related units.
	// net.LookupHost is used when nil.
	LookupHost func(host string) ([]string, error)
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if err := config.Hook.Validate(); err != nil {
		return errors.Trace(err)
	}
	if config.Env == nil {
		return errors.NotValidf("nil Env")
	}
	if config.State == nil {
		return errors.NotValidf("nil State")
	}
	if config.Files == nil {
		return errors.NotValidf("nil Files")
	}
	if config.Gateways == nil {
		return errors.NotValidf("nil Gateways")
	}
	if config.Interfaces == nil {
		return errors.NotValidf("nil Interfaces")
	}
	if config.Services == nil {
		return errors.NotValidf("nil Services")
	}
	return nil
}

// Handler runs a single hook.
type Handler struct {
	config Config
	hooks  map[string]func() error

	tracker  *readiness.Tracker
	contexts conffile.Contexts
	vrouter  *provision.VRouterReconciler
	metadata *provision.MetadataReconciler

	// changed holds the paths of the files rewritten by the hook.
	changed set.Strings

	// restarts holds services to restart regardless of file changes.
	restarts []string
}

// New returns a Handler for the hook in config.
func New(config Config) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.NewSecret == nil {
		config.NewSecret = uuid.NewString
	}
	creds := credentials.NewResolver(credentials.Config{
		Relations:  config.Env,
		State:      config.State,
		Hook:       config.Hook,
		LookupHost: config.LookupHost,
	})
	tracker := readiness.NewTracker(config.Env, config.State)

	vrouter, err := provision.NewVRouterReconciler(provision.VRouterConfig{
		State:       config.State,
		Readiness:   tracker,
		Credentials: creds,
		Provisioner: config.Provisioner,
		Executor:    config.Executor,
		Node:        config.Node,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	metadata, err := provision.NewMetadataReconciler(provision.MetadataConfig{
		State:       config.State,
		Leader:      config.Env,
		Peers:       config.Env,
		Credentials: creds,
		Provisioner: config.Provisioner,
		Executor:    config.Executor,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	h := &Handler{
		config:  config,
		tracker: tracker,
		contexts: conffile.Contexts{
			Relations:  config.Env,
			Options:    config.State,
			Endpoints:  creds,
			Interfaces: config.Interfaces,
		},
		vrouter:  vrouter,
		metadata: metadata,
		changed:  set.NewStrings(),
	}
	h.hooks = h.hookTable()
	return h, nil
}

// Handle runs the hook. Hooks the charm does not implement are skipped.
func (h *Handler) Handle() (err error) {
	name := h.config.Hook.Name()
	run, ok := h.hooks[name]
	if !ok {
		logger.Infof("unknown hook %s - skipping", name)
		return nil
	}
	defer errors.DeferredAnnotatef(&err, "running %s hook", name)

	logger.Debugf("running %s", name)
	if err := run(); err != nil {
		return errors.Trace(err)
	}
	if err := h.restartServices(); err != nil {
		return errors.Trace(err)
	}
	if err := h.setStatus(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.config.State.Save())
}

func (h *Handler) restartServices() error {
	services := set.NewStrings(restartMap.ServicesFor(h.changed.SortedValues()...)...)
	services = services.Union(set.NewStrings(h.restarts...))
	if services.IsEmpty() {
		return nil
	}
	return errors.Trace(h.config.Services.Restart(services.SortedValues()...))
}

// record notes that the file at path was rewritten when changed is true.
func (h *Handler) record(path string, changed bool) {
	if changed {
		h.changed.Add(path)
	}
}
