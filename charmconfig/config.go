// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charmconfig describes the charm's configuration options and
// coerces the values reported by config-get into their declared types.
package charmconfig

import (
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
)

// Option names.
const (
	ContrailAPIIPKey       = "contrail-api-ip"
	ContrailAPIPortKey     = "contrail-api-port"
	DiscoveryServerIPKey   = "discovery-server-ip"
	ControlInterfaceKey    = "control-interface"
	VHostInterfaceKey      = "vhost-interface"
	VHostGatewayKey        = "vhost-gateway"
	LocalMetadataServerKey = "local-metadata-server"
	VirtualGatewaysKey     = "virtual-gateways"
)

// Schema declares the charm options.
var Schema = environschema.Fields{
	ContrailAPIIPKey: {
		Description: "Address of the contrail api server, used instead of the contrail-api relation.",
		Type:        environschema.Tstring,
	},
	ContrailAPIPortKey: {
		Description: "Port of the contrail api server given by contrail-api-ip.",
		Type:        environschema.Tint,
	},
	DiscoveryServerIPKey: {
		Description: "Address of the discovery server, used instead of the contrail-discovery relation.",
		Type:        environschema.Tstring,
	},
	ControlInterfaceKey: {
		Description: "Interface on the control network.",
		Type:        environschema.Tstring,
	},
	VHostInterfaceKey: {
		Description: "Physical interface attached to vhost0. Defaults to the control interface.",
		Type:        environschema.Tstring,
	},
	VHostGatewayKey: {
		Description: `Default gateway of vhost0, or "auto" to use the one of the physical interface.`,
		Type:        environschema.Tstring,
	},
	LocalMetadataServerKey: {
		Description: "Run the nova metadata service locally instead of using neutron-metadata.",
		Type:        environschema.Tbool,
	},
	VirtualGatewaysKey: {
		Description: "YAML list of virtual gateways, each with an interface and subnets.",
		Type:        environschema.Tstring,
	},
}

// Defaults holds the option defaults.
var Defaults = schema.Defaults{
	ContrailAPIIPKey:       schema.Omit,
	ContrailAPIPortKey:     schema.Omit,
	DiscoveryServerIPKey:   schema.Omit,
	ControlInterfaceKey:    "eth0",
	VHostInterfaceKey:      schema.Omit,
	VHostGatewayKey:        "auto",
	LocalMetadataServerKey: false,
	VirtualGatewaysKey:     schema.Omit,
}

var configChecker = func() schema.Checker {
	fields, _, err := Schema.ValidationSchema()
	if err != nil {
		panic(err)
	}
	return schema.FieldMap(fields, Defaults)
}()

// Coerce checks attrs against the schema and fills in defaults. Every
// option appears in the result; options that are unset have a nil value
// so that stale saved values are dropped. Unknown keys are ignored.
func Coerce(attrs map[string]interface{}) (map[string]interface{}, error) {
	set := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		// config-get reports unset options without a default as null,
		// and an empty string means the same thing for these options.
		if v == nil || v == "" {
			continue
		}
		set[k] = v
	}
	coerced, err := configChecker.Coerce(set, nil)
	if err != nil {
		return nil, errors.NewNotValid(err, "charm config")
	}
	result := coerced.(map[string]interface{})
	for name := range Schema {
		if _, ok := result[name]; !ok {
			result[name] = nil
		}
	}
	return result, nil
}
