// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package credentials resolves the address and authentication details
// needed to call the contrail provisioning commands.
package credentials

import (
	"net"
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/neutron-contrail/hook"
)

var logger = loggo.GetLogger("neutroncontrail.credentials")

const (
	// DefaultAPIPort is used with a configured api address when no port
	// is configured.
	DefaultAPIPort = 8082

	apiRelation      = "contrail-api"
	identityRelation = "identity-admin"

	apiAddressKey = "contrail-api-ip"
	apiPortKey    = "contrail-api-port"
)

// ErrRelationBroken is returned by Teardown when the current hook is a
// relation-broken hook. By then the departing units' data has already
// been used by the relation-departed hooks and cannot be read again.
const ErrRelationBroken = errors.ConstError("relation is broken")

// Bundle holds everything needed to authenticate against the contrail
// api server.
type Bundle struct {
	APIAddress string
	APIPort    int
	Username   string
	Password   string
	Tenant     string
}

// Identity describes the keystone service published on identity-admin.
type Identity struct {
	Host     string
	Port     string
	Username string
	Password string
	Tenant   string
	Region   string
}

// RelationData gives read access to relation membership and settings.
type RelationData interface {
	RelationIds(name string) ([]string, error)
	RelatedUnits(relationId string) ([]string, error)
	RelationGet(key, unit, relationId string) (string, error)
}

// State gives access to the current and previous charm configuration.
type State interface {
	String(key string) string
	Int(key string) (int, bool)
	PreviousString(key string) string
	PreviousInt(key string) (int, bool)
}

// Config holds the dependencies of a Resolver.
type Config struct {
	Relations RelationData
	State     State
	Hook      hook.Info

	// LookupHost resolves host names; net.LookupHost is used when nil.
	LookupHost func(host string) ([]string, error)
}

// Resolver computes credential bundles. Nothing is cached: every call
// reads the current relation data and configuration.
type Resolver struct {
	relations  RelationData
	state      State
	hook       hook.Info
	lookupHost func(host string) ([]string, error)
}

// NewResolver returns a Resolver for config.
func NewResolver(config Config) *Resolver {
	lookup := config.LookupHost
	if lookup == nil {
		lookup = net.LookupHost
	}
	return &Resolver{
		relations:  config.Relations,
		state:      config.State,
		hook:       config.Hook,
		lookupHost: lookup,
	}
}

// Current returns the bundle built from the configured api address, or
// the first api unit that has published its port, together with the
// first identity unit that has published its host name.
func (r *Resolver) Current() (Bundle, error) {
	address, port, err := r.APIEndpoint()
	if err != nil {
		return Bundle{}, errors.Trace(err)
	}
	identity, err := r.Identity()
	if err != nil {
		return Bundle{}, errors.Trace(err)
	}
	return Bundle{
		APIAddress: address,
		APIPort:    port,
		Username:   identity.Username,
		Password:   identity.Password,
		Tenant:     identity.Tenant,
	}, nil
}

// Teardown returns the bundle to use when unprovisioning. The relation
// data of a dependency that is going away may already be gone, so the
// previous api address setting is preferred, and the departing unit's own
// data is used when the hook belongs to the api or identity relation.
// ErrRelationBroken is returned for relation-broken hooks.
func (r *Resolver) Teardown() (Bundle, error) {
	if r.hook.IsTeardown() {
		return Bundle{}, ErrRelationBroken
	}
	address, port, err := r.teardownAPIEndpoint()
	if err != nil {
		return Bundle{}, errors.Trace(err)
	}
	bundle := Bundle{APIAddress: address, APIPort: port}
	if r.hook.Kind.IsRelation() && r.hook.RelationName == identityRelation {
		bundle.Username, bundle.Password, bundle.Tenant, err = r.identityAuth("", "")
		if err != nil {
			return Bundle{}, errors.Trace(err)
		}
		return bundle, nil
	}
	found, err := r.firstUnit(identityRelation, "", func(unit, relationId string) error {
		bundle.Username, bundle.Password, bundle.Tenant, err = r.identityAuth(unit, relationId)
		return err
	})
	if err != nil {
		return Bundle{}, errors.Trace(err)
	}
	if !found {
		return Bundle{}, errors.NotFoundf("%s relation data", identityRelation)
	}
	return bundle, nil
}

// APIEndpoint returns the api server address and port currently in use.
func (r *Resolver) APIEndpoint() (string, int, error) {
	if address := r.state.String(apiAddressKey); address != "" {
		port, ok := r.state.Int(apiPortKey)
		if !ok {
			port = DefaultAPIPort
		}
		return address, port, nil
	}
	var (
		address string
		port    int
	)
	found, err := r.firstUnit(apiRelation, "port", func(unit, relationId string) (err error) {
		address, port, err = r.apiUnitEndpoint(unit, relationId)
		return err
	})
	if err != nil {
		return "", 0, errors.Trace(err)
	}
	if !found {
		return "", 0, errors.NotFoundf("%s relation data", apiRelation)
	}
	return address, port, nil
}

func (r *Resolver) teardownAPIEndpoint() (string, int, error) {
	if address := r.state.PreviousString(apiAddressKey); address != "" {
		port, ok := r.state.PreviousInt(apiPortKey)
		if !ok {
			port = DefaultAPIPort
		}
		return address, port, nil
	}
	if r.hook.Kind.IsRelation() && r.hook.RelationName == apiRelation {
		address, port, err := r.apiUnitEndpoint("", "")
		return address, port, errors.Trace(err)
	}
	var (
		address string
		port    int
	)
	found, err := r.firstUnit(apiRelation, "", func(unit, relationId string) (err error) {
		address, port, err = r.apiUnitEndpoint(unit, relationId)
		return err
	})
	if err != nil {
		return "", 0, errors.Trace(err)
	}
	if !found {
		return "", 0, errors.NotFoundf("%s relation data", apiRelation)
	}
	return address, port, nil
}

// Identity returns the first identity service that has published its
// host name.
func (r *Resolver) Identity() (Identity, error) {
	var identity Identity
	found, err := r.firstUnit(identityRelation, "service_hostname", func(unit, relationId string) (err error) {
		get := func(key string) string {
			if err != nil {
				return ""
			}
			var value string
			value, err = r.relations.RelationGet(key, unit, relationId)
			return value
		}
		hostname := get("service_hostname")
		identity = Identity{
			Port:     get("service_port"),
			Username: get("service_username"),
			Password: get("service_password"),
			Tenant:   get("service_tenant_name"),
			Region:   get("service_region"),
		}
		if err != nil {
			return err
		}
		identity.Host, err = r.ResolveHost(hostname)
		return err
	})
	if err != nil {
		return Identity{}, errors.Trace(err)
	}
	if !found {
		return Identity{}, errors.NotFoundf("%s relation data", identityRelation)
	}
	return identity, nil
}

func (r *Resolver) identityAuth(unit, relationId string) (user, password, tenant string, err error) {
	if user, err = r.relations.RelationGet("service_username", unit, relationId); err != nil {
		return "", "", "", errors.Trace(err)
	}
	if password, err = r.relations.RelationGet("service_password", unit, relationId); err != nil {
		return "", "", "", errors.Trace(err)
	}
	if tenant, err = r.relations.RelationGet("service_tenant_name", unit, relationId); err != nil {
		return "", "", "", errors.Trace(err)
	}
	return user, password, tenant, nil
}

func (r *Resolver) apiUnitEndpoint(unit, relationId string) (string, int, error) {
	host, err := r.relations.RelationGet("private-address", unit, relationId)
	if err != nil {
		return "", 0, errors.Trace(err)
	}
	rawPort, err := r.relations.RelationGet("port", unit, relationId)
	if err != nil {
		return "", 0, errors.Trace(err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return "", 0, errors.NotValidf("api port %q", rawPort)
	}
	address, err := r.ResolveHost(host)
	if err != nil {
		return "", 0, errors.Trace(err)
	}
	return address, port, nil
}

// firstUnit calls f for the first unit across the relations of endpoint
// that has published field (any unit when field is empty), and reports
// whether one was found.
func (r *Resolver) firstUnit(endpoint, field string, f func(unit, relationId string) error) (bool, error) {
	ids, err := r.relations.RelationIds(endpoint)
	if err != nil {
		return false, errors.Trace(err)
	}
	for _, id := range ids {
		units, err := r.relations.RelatedUnits(id)
		if err != nil {
			return false, errors.Trace(err)
		}
		for _, unit := range units {
			if field != "" {
				value, err := r.relations.RelationGet(field, unit, id)
				if err != nil {
					return false, errors.Trace(err)
				}
				if value == "" {
					continue
				}
			}
			return true, errors.Trace(f(unit, id))
		}
	}
	return false, nil
}

// ResolveHost returns the first address for host, or host itself when it is
// already an ip address.
func (r *Resolver) ResolveHost(host string) (string, error) {
	if host == "" {
		return "", errors.NotFoundf("host address")
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	addrs, err := r.lookupHost(host)
	if err != nil {
		return "", errors.Annotatef(err, "resolving %q", host)
	}
	if len(addrs) == 0 {
		return "", errors.NotFoundf("address for %q", host)
	}
	logger.Debugf("resolved %q to %s", host, addrs[0])
	return addrs[0], nil
}
