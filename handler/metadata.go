// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package handler

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/charmconfig"
	"github.com/juju/neutron-contrail/hookenv"
	"github.com/juju/neutron-contrail/provision"
)

const (
	// LocalMetadataSecretKey is the unit state key holding the secret
	// shared with nova when the metadata service runs locally.
	LocalMetadataSecretKey = "local-metadata-secret"

	metadataSecretSetting    = "metadata-shared-secret"
	subordinateConfigSetting = "subordinate_configuration"
)

// novaConfig is published to nova-compute as its subordinate
// configuration: sections map to lists of key/value pairs.
var novaConfig = map[string]interface{}{
	"nova-compute": map[string]interface{}{
		"/etc/nova/nova.conf": map[string]interface{}{
			"sections": map[string]interface{}{
				"DEFAULT": [][2]string{
					{"firewall_driver", "nova.virt.firewall.NoopFirewallDriver"},
				},
			},
		},
	},
}

// configureLocalMetadata creates the local metadata secret when the
// local metadata service is enabled, removes it when it is disabled, and
// publishes the change to nova.
func (h *Handler) configureLocalMetadata() error {
	state := h.config.State
	enabled := state.Bool(charmconfig.LocalMetadataServerKey)
	secret := state.String(LocalMetadataSecretKey)
	switch {
	case enabled && secret == "":
		secret = h.config.NewSecret()
		state.SetString(LocalMetadataSecretKey, secret)
		logger.Infof("generated local metadata secret")
	case !enabled && secret != "":
		secret = ""
		state.Remove(LocalMetadataSecretKey)
		logger.Infof("removed local metadata secret")
	default:
		return nil
	}

	ids, err := h.config.Env.RelationIds(pluginRelation)
	if err != nil {
		return errors.Trace(err)
	}
	for _, id := range ids {
		if err := h.config.Env.RelationSet(id, map[string]string{metadataSecretSetting: secret}); err != nil {
			return errors.Annotatef(err, "publishing metadata secret on %s", id)
		}
	}
	return nil
}

func (h *Handler) neutronPluginJoined() error {
	conf, err := json.Marshal(novaConfig)
	if err != nil {
		return errors.Trace(err)
	}
	settings := map[string]string{subordinateConfigSetting: string(conf)}
	if h.config.State.Bool(charmconfig.LocalMetadataServerKey) {
		if secret := h.config.State.String(LocalMetadataSecretKey); secret != "" {
			settings[metadataSecretSetting] = secret
		}
	}
	return errors.Trace(h.config.Env.RelationSet("", settings))
}

// setStatus reports the unit's workload status.
func (h *Handler) setStatus() error {
	if missing := h.tracker.Missing(); len(missing) > 0 {
		return errors.Trace(h.config.Env.StatusSet(hookenv.Blocked, "Missing relations: "+strings.Join(missing, ", ")))
	}
	if !h.config.State.Bool(provision.VRouterProvisionedKey) {
		return errors.Trace(h.config.Env.StatusSet(hookenv.Waiting, "Waiting for vrouter provisioning"))
	}
	return errors.Trace(h.config.Env.StatusSet(hookenv.Active, "Unit is ready"))
}
