// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package conffile

import (
	"net"
	"strconv"

	"github.com/juju/errors"

	"github.com/juju/neutron-contrail/credentials"
	"github.com/juju/neutron-contrail/gateway"
)

// DefaultDiscoveryPort is used with a configured discovery server.
const DefaultDiscoveryPort = 5998

// RelationData gives read access to relation membership and settings.
type RelationData interface {
	RelationIds(name string) ([]string, error)
	RelatedUnits(relationId string) ([]string, error)
	RelationGet(key, unit, relationId string) (string, error)
}

// Options gives access to charm options and unit state.
type Options interface {
	String(key string) string
}

// Endpoints resolves the api and identity services.
type Endpoints interface {
	APIEndpoint() (string, int, error)
	Identity() (credentials.Identity, error)
	ResolveHost(host string) (string, error)
}

// Interfaces inspects the host's network interfaces.
type Interfaces interface {
	IPv4Address(name string) (*net.IPNet, error)
	DefaultGateway(name string) (string, error)
}

// Contexts gathers the content of the configuration files from relation
// data, charm options and the host. Data that is not available yet is
// left out of the files rather than treated as an error.
type Contexts struct {
	Relations  RelationData
	Options    Options
	Endpoints  Endpoints
	Interfaces Interfaces
}

// VNCAPI returns the content of vnc_api_lib.ini.
func (c Contexts) VNCAPI() (VNCAPI, error) {
	var conf VNCAPI
	address, port, err := c.Endpoints.APIEndpoint()
	switch {
	case errors.Is(err, errors.NotFound):
	case err != nil:
		return VNCAPI{}, errors.Trace(err)
	default:
		conf.APIServer, conf.APIPort = address, port
	}
	identity, err := c.Endpoints.Identity()
	switch {
	case errors.Is(err, errors.NotFound):
	case err != nil:
		return VNCAPI{}, errors.Trace(err)
	default:
		conf.Identity = &identity
	}
	return conf, nil
}

// Discovery returns the configured discovery server, or the first one
// related that has published its port.
func (c Contexts) Discovery() (Discovery, error) {
	if ip := c.Options.String("discovery-server-ip"); ip != "" {
		return Discovery{Server: ip, Port: DefaultDiscoveryPort}, nil
	}
	var found Discovery
	err := c.eachUnit("contrail-discovery", func(unit, relationId string) (bool, error) {
		rawPort, err := c.Relations.RelationGet("port", unit, relationId)
		if err != nil || rawPort == "" {
			return false, errors.Trace(err)
		}
		port, err := strconv.Atoi(rawPort)
		if err != nil {
			return false, errors.NotValidf("discovery port %q", rawPort)
		}
		server, err := c.Relations.RelationGet("vip", unit, relationId)
		if err != nil {
			return false, errors.Trace(err)
		}
		if server == "" {
			if server, err = c.unitAddress(unit, relationId); err != nil {
				return false, errors.Trace(err)
			}
		}
		found = Discovery{Server: server, Port: port}
		return true, nil
	})
	return found, errors.Trace(err)
}

// ControlNodes returns the addresses of all related control nodes.
func (c Contexts) ControlNodes() ([]string, error) {
	var nodes []string
	err := c.eachUnit("control-node", func(unit, relationId string) (bool, error) {
		address, err := c.unitAddress(unit, relationId)
		if errors.Is(err, errors.NotFound) {
			return false, nil
		} else if err != nil {
			return false, errors.Trace(err)
		}
		nodes = append(nodes, address)
		return false, nil
	})
	return nodes, errors.Trace(err)
}

// MetadataSecret returns the locally generated metadata secret, or the
// one published by neutron-metadata.
func (c Contexts) MetadataSecret() (string, error) {
	if secret := c.Options.String("local-metadata-secret"); secret != "" {
		return secret, nil
	}
	var secret string
	err := c.eachUnit("neutron-metadata", func(unit, relationId string) (bool, error) {
		var err error
		secret, err = c.Relations.RelationGet("shared-secret", unit, relationId)
		return secret != "", errors.Trace(err)
	})
	return secret, errors.Trace(err)
}

// Agent returns the content of contrail-vrouter-agent.conf.
func (c Contexts) Agent() (Agent, error) {
	var (
		conf Agent
		err  error
	)
	if conf.ControlNodes, err = c.ControlNodes(); err != nil {
		return Agent{}, errors.Trace(err)
	}
	if conf.Discovery, err = c.Discovery(); err != nil {
		return Agent{}, errors.Trace(err)
	}
	if conf.MetadataSecret, err = c.MetadataSecret(); err != nil {
		return Agent{}, errors.Trace(err)
	}
	// Only gateways that were applied are advertised; a rejected
	// declaration never reaches the agent.
	if conf.Gateways, err = gateway.Parse(c.Options.String(gateway.AppliedKey)); err != nil {
		logger.Warningf("not advertising virtual gateways: %v", err)
		conf.Gateways = nil
	}

	controlInterface := c.Options.String("control-interface")
	if addr, err := c.interfaceAddress(controlInterface); err != nil {
		return Agent{}, errors.Trace(err)
	} else if addr != nil {
		conf.ControlNetworkIP = addr.IP.String()
	}

	if addr, err := c.interfaceAddress("vhost0"); err != nil {
		return Agent{}, errors.Trace(err)
	} else if addr != nil {
		conf.VHost.Address = addr.String()
	}
	conf.VHost.Gateway = c.Options.String("vhost-gateway")
	if conf.VHost.Gateway == "auto" {
		conf.VHost.Gateway, err = c.Interfaces.DefaultGateway("vhost0")
		if errors.Is(err, errors.NotFound) {
			logger.Warningf("vhost0 has no default gateway")
		} else if err != nil {
			return Agent{}, errors.Trace(err)
		}
	}
	conf.VHost.Physical = c.Options.String("vhost-interface")
	if conf.VHost.Physical == "" {
		conf.VHost.Physical = controlInterface
	}
	return conf, nil
}

// NodeMgr returns the content of contrail-vrouter-nodemgr.conf.
func (c Contexts) NodeMgr() (NodeMgr, error) {
	discovery, err := c.Discovery()
	if err != nil {
		return NodeMgr{}, errors.Trace(err)
	}
	return NodeMgr{Discovery: discovery}, nil
}

func (c Contexts) interfaceAddress(name string) (*net.IPNet, error) {
	if name == "" {
		return nil, nil
	}
	addr, err := c.Interfaces.IPv4Address(name)
	if errors.Is(err, errors.NotFound) {
		logger.Warningf("%s has no IPv4 address", name)
		return nil, nil
	}
	return addr, errors.Trace(err)
}

func (c Contexts) unitAddress(unit, relationId string) (string, error) {
	host, err := c.Relations.RelationGet("private-address", unit, relationId)
	if err != nil {
		return "", errors.Trace(err)
	}
	address, err := c.Endpoints.ResolveHost(host)
	return address, errors.Trace(err)
}

// eachUnit calls f for every unit of the named endpoint until f reports
// that it is done.
func (c Contexts) eachUnit(endpoint string, f func(unit, relationId string) (bool, error)) error {
	ids, err := c.Relations.RelationIds(endpoint)
	if err != nil {
		return errors.Trace(err)
	}
	for _, id := range ids {
		units, err := c.Relations.RelatedUnits(id)
		if err != nil {
			return errors.Trace(err)
		}
		for _, unit := range units {
			done, err := f(unit, id)
			if err != nil {
				return errors.Trace(err)
			}
			if done {
				return nil
			}
		}
	}
	return nil
}
