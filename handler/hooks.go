// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package handler

import (
	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/conffile"
	"github.com/juju/neutron-contrail/gateway"
	"github.com/juju/neutron-contrail/provision"
	"github.com/juju/neutron-contrail/readiness"
)

const (
	apiRelation       = "contrail-api"
	discoveryRelation = "contrail-discovery"
	controlRelation   = "control-node"
	identityRelation  = "identity-admin"
	metadataRelation  = "neutron-metadata"
	pluginRelation    = "neutron-plugin"
)

func (h *Handler) hookTable() map[string]func() error {
	hooks := map[string]func() error{
		"config-changed":          h.configChanged,
		"upgrade-charm":           h.upgradeCharm,
		"update-status":           func() error { return nil },
		"leader-elected":          h.reconcileMetadata,
		"leader-settings-changed": h.reconcileMetadata,

		apiRelation + "-relation-changed":  h.dependencyChanged(readiness.API, h.writeVNCAPI),
		apiRelation + "-relation-departed": h.dependencyDeparted(readiness.API, h.writeVNCAPI),
		apiRelation + "-relation-broken":   h.dependencyDeparted(readiness.API, h.writeVNCAPI),

		discoveryRelation + "-relation-changed":  h.dependencyChanged(readiness.Control, h.writeAgent, h.writeNodeMgr),
		discoveryRelation + "-relation-departed": h.dependencyDeparted(readiness.Control, h.writeAgent, h.writeNodeMgr),
		discoveryRelation + "-relation-broken":   h.dependencyDeparted(readiness.Control, h.writeAgent, h.writeNodeMgr),

		controlRelation + "-relation-joined":   h.dependencyChanged(readiness.Control, h.writeAgent),
		controlRelation + "-relation-departed": h.dependencyDeparted(readiness.Control, h.writeAgent),
		controlRelation + "-relation-broken":   h.dependencyDeparted(readiness.Control, h.writeAgent),

		identityRelation + "-relation-changed":  h.dependencyChanged(readiness.Identity, h.writeVNCAPI),
		identityRelation + "-relation-departed": h.dependencyDeparted(readiness.Identity, h.writeVNCAPI),
		identityRelation + "-relation-broken":   h.dependencyDeparted(readiness.Identity, h.writeVNCAPI),

		metadataRelation + "-relation-changed":  h.neutronMetadataChanged,
		metadataRelation + "-relation-departed": h.writeAgent,
		metadataRelation + "-relation-broken":   h.writeAgent,

		pluginRelation + "-relation-joined": h.neutronPluginJoined,
	}
	for _, kind := range []string{"joined", "changed", "departed", "broken"} {
		hooks[provision.PeerRelation+"-relation-"+kind] = h.reconcileMetadata
	}
	return hooks
}

func (h *Handler) configChanged() error {
	result, err := gateway.NewReconciler(h.config.State, h.config.Gateways).Reconcile()
	if err != nil {
		return errors.Annotate(err, "configuring virtual gateways")
	}
	h.record(conffile.GatewayInterfacesPath, result.Written)

	if err := h.configureLocalMetadata(); err != nil {
		return errors.Trace(err)
	}
	if err := h.writeAll(); err != nil {
		return errors.Trace(err)
	}
	for _, dep := range readiness.All {
		if _, err := h.tracker.Update(dep); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(h.reconcile())
}

func (h *Handler) upgradeCharm() error {
	if err := h.writeAll(); err != nil {
		return errors.Trace(err)
	}
	h.restarts = append(h.restarts, "supervisor-vrouter")
	return nil
}

// dependencyChanged returns a handler for a unit of dep joining or
// changing. Nothing is done until the unit has published the field dep
// needs; a later change hook will deliver it.
func (h *Handler) dependencyChanged(dep readiness.Dependency, writers ...func() error) func() error {
	return func() error {
		relation := h.config.Hook.RelationName
		if field := dep.RequiredField(relation); field != "" {
			value, err := h.config.Env.RelationGet(field, "", "")
			if err != nil {
				return errors.Trace(err)
			}
			if value == "" {
				logger.Infof("%s has not published %s yet", h.config.Hook.RemoteUnit, field)
				return nil
			}
		}
		for _, write := range writers {
			if err := write(); err != nil {
				return errors.Trace(err)
			}
		}
		if _, err := h.tracker.Update(dep); err != nil {
			return errors.Trace(err)
		}
		return errors.Trace(h.reconcile())
	}
}

// dependencyDeparted returns a handler for a unit of dep going away. The
// flag is recomputed from the units that remain, and the reconcilers run
// before the files are rewritten so that unprovisioning still sees the
// departing unit's data.
func (h *Handler) dependencyDeparted(dep readiness.Dependency, writers ...func() error) func() error {
	return func() error {
		if _, err := h.tracker.Update(dep); err != nil {
			return errors.Trace(err)
		}
		if err := h.reconcile(); err != nil {
			return errors.Trace(err)
		}
		for _, write := range writers {
			if err := write(); err != nil {
				return errors.Trace(err)
			}
		}
		return nil
	}
}

func (h *Handler) neutronMetadataChanged() error {
	secret, err := h.config.Env.RelationGet("shared-secret", "", "")
	if err != nil {
		return errors.Trace(err)
	}
	if secret == "" {
		logger.Infof("%s has not published shared-secret yet", h.config.Hook.RemoteUnit)
		return nil
	}
	return errors.Trace(h.writeAgent())
}

// reconcile evaluates the vrouter reconciler and then the metadata
// reconciler, which depends on the vrouter flag.
func (h *Handler) reconcile() error {
	if _, err := h.vrouter.Reconcile(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.reconcileMetadata())
}

func (h *Handler) reconcileMetadata() error {
	action, err := h.metadata.Reconcile()
	if err != nil {
		return errors.Trace(err)
	}
	if action == provision.Reset {
		logger.Infof("local metadata flag reset: no peers left to hand it over to")
	}
	return nil
}

func (h *Handler) writeAll() error {
	for _, write := range []func() error{h.writeAgent, h.writeVNCAPI, h.writeNodeMgr} {
		if err := write(); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (h *Handler) writeVNCAPI() error {
	conf, err := h.contexts.VNCAPI()
	if err != nil {
		return errors.Trace(err)
	}
	changed, err := h.config.Files.WriteVNCAPI(conf)
	if err != nil {
		return errors.Trace(err)
	}
	h.record(conffile.VNCAPIPath, changed)
	return nil
}

func (h *Handler) writeAgent() error {
	conf, err := h.contexts.Agent()
	if err != nil {
		return errors.Trace(err)
	}
	changed, err := h.config.Files.WriteAgent(conf)
	if err != nil {
		return errors.Trace(err)
	}
	h.record(conffile.AgentPath, changed)
	return nil
}

func (h *Handler) writeNodeMgr() error {
	conf, err := h.contexts.NodeMgr()
	if err != nil {
		return errors.Trace(err)
	}
	changed, err := h.config.Files.WriteNodeMgr(conf)
	if err != nil {
		return errors.Trace(err)
	}
	h.record(conffile.NodeMgrPath, changed)
	return nil
}
