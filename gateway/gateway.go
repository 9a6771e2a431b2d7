// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package gateway manages the virtual gateway interfaces declared in the
// charm configuration.
package gateway

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/naturalsort"
	"github.com/juju/schema"
	"gopkg.in/yaml.v2"
)

// Gateway is one declared virtual gateway.
type Gateway struct {
	// Interface is the name of the gateway interface, e.g. vgw1.
	Interface string `yaml:"interface"`

	// Subnets are the CIDRs routed through the gateway.
	Subnets []string `yaml:"subnets"`

	// Routes are the prefixes advertised into the virtual network.
	Routes []string `yaml:"routes,omitempty"`

	// Project is the project of the routing instance, admin when empty.
	Project string `yaml:"project,omitempty"`

	// Network is the virtual network of the routing instance, public
	// when empty.
	Network string `yaml:"network,omitempty"`
}

// Spec is an ordered list of gateways.
type Spec []Gateway

var gatewayFields = schema.FieldMap(
	schema.Fields{
		"interface": schema.String(),
		"subnets":   schema.List(schema.String()),
		"routes":    schema.List(schema.String()),
		"project":   schema.String(),
		"network":   schema.String(),
	},
	schema.Defaults{
		"routes":  schema.Omit,
		"project": schema.Omit,
		"network": schema.Omit,
	},
)

// Parse reads a yaml list of gateways. Every problem found is reported,
// and an interface declared more than once is rejected rather than merged.
// An empty document is an empty Spec.
func Parse(raw string) (Spec, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var records []interface{}
	if err := yaml.Unmarshal([]byte(raw), &records); err != nil {
		return nil, errors.NewNotValid(err, "virtual gateways")
	}

	var (
		spec  Spec
		errs  *multierror.Error
		names = set.NewStrings()
	)
	for i, record := range records {
		coerced, err := gatewayFields.Coerce(record, []string{fmt.Sprintf("gateway[%d]", i)})
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		attrs := coerced.(map[string]interface{})
		gw := Gateway{
			Interface: attrs["interface"].(string),
			Subnets:   stringList(attrs["subnets"]),
			Routes:    stringList(attrs["routes"]),
		}
		gw.Project, _ = attrs["project"].(string)
		gw.Network, _ = attrs["network"].(string)

		if err := gw.Validate(); err != nil {
			errs = multierror.Append(errs, errors.Annotatef(err, "gateway[%d]", i))
			continue
		}
		if names.Contains(gw.Interface) {
			errs = multierror.Append(errs, errors.Errorf("gateway[%d]: interface %q declared more than once", i, gw.Interface))
			continue
		}
		names.Add(gw.Interface)
		spec = append(spec, gw)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, errors.NewNotValid(err, "virtual gateways")
	}
	return spec, nil
}

// Validate checks a single gateway.
func (gw Gateway) Validate() error {
	if gw.Interface == "" {
		return errors.NotValidf("empty interface name")
	}
	if len(gw.Subnets) == 0 {
		return errors.NotValidf("gateway %q without subnets", gw.Interface)
	}
	for _, cidr := range append(append([]string(nil), gw.Subnets...), gw.Routes...) {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return errors.NotValidf("CIDR %q", cidr)
		}
	}
	return nil
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(string)
	}
	return out
}

// Equal reports whether two specs route the same subnets through the same
// interfaces. Record order, routes and routing instance are ignored.
func (s Spec) Equal(other Spec) bool {
	return s.Mapping().Equal(other.Mapping())
}

// Mapping returns the subnets of each interface.
func (s Spec) Mapping() Mapping {
	m := make(Mapping, len(s))
	for _, gw := range s {
		m[gw.Interface] = set.NewStrings(gw.Subnets...)
	}
	return m
}

// Mapping maps interface names to their subnets.
type Mapping map[string]set.Strings

// Changed returns the interfaces in m that are missing from other, or that
// have different subnets there, in natural name order.
func (m Mapping) Changed(other Mapping) []string {
	var names []string
	for name, subnets := range m {
		if theirs, ok := other[name]; !ok || !cmp.Equal(subnets, theirs, cmpopts.EquateEmpty()) {
			names = append(names, name)
		}
	}
	naturalsort.Sort(names)
	return names
}

// Equal reports whether m and other hold the same interfaces with the
// same subnets.
func (m Mapping) Equal(other Mapping) bool {
	return len(m.Changed(other)) == 0 && len(other.Changed(m)) == 0
}

// Diff returns the interfaces to take down and bring up to move from prev
// to next. An interface with unchanged subnets appears in neither.
func Diff(prev, next Mapping) (down, up []string) {
	return prev.Changed(next), next.Changed(prev)
}
