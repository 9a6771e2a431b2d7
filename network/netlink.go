// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package network

import (
	"net"
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"github.com/vishvananda/netlink"

	"github.com/juju/neutron-contrail/contrail"
)

// VHostInterface is the interface created by the vrouter kernel module.
const VHostInterface = "vhost0"

// Netlink is the subset of the netlink api used to inspect links.
type Netlink interface {
	LinkByName(name string) (netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	RouteList(link netlink.Link, family int) ([]netlink.Route, error)
}

type netlinkHandle struct{}

func (netlinkHandle) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (netlinkHandle) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (netlinkHandle) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return netlink.RouteList(link, family)
}

// DefaultNetlink queries the kernel of the current host.
var DefaultNetlink Netlink = netlinkHandle{}

// Inspector reads interface addresses and routes.
type Inspector struct {
	nl    Netlink
	clock clock.Clock
}

// NewInspector returns an Inspector. The clock is used when waiting for
// an address to appear.
func NewInspector(nl Netlink, clk clock.Clock) *Inspector {
	return &Inspector{nl: nl, clock: clk}
}

// IPv4Address returns the first IPv4 address of the named interface.
func (i *Inspector) IPv4Address(name string) (*net.IPNet, error) {
	link, err := i.nl.LinkByName(name)
	if err != nil {
		return nil, errors.Annotatef(err, "looking up %q", name)
	}
	addrs, err := i.nl.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Annotatef(err, "listing addresses of %q", name)
	}
	for _, addr := range addrs {
		if addr.IPNet != nil && addr.IP.To4() != nil {
			return addr.IPNet, nil
		}
	}
	return nil, errors.NotFoundf("IPv4 address on %q", name)
}

// WaitIPv4Address returns the first IPv4 address of the named interface,
// waiting for one to be assigned. The vhost interface only gets its
// address some time after the agent has started.
func (i *Inspector) WaitIPv4Address(name string) (*net.IPNet, error) {
	var addr *net.IPNet
	err := retry.Call(retry.CallArgs{
		Func: func() (err error) {
			addr, err = i.IPv4Address(name)
			return err
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errors.NotFound)
		},
		NotifyFunc: func(lastError error, attempt int) {
			logger.Debugf("waiting for address on %q (attempt %d)", name, attempt)
		},
		Attempts: 10,
		Delay:    time.Second,
		Clock:    i.clock,
	})
	if err != nil {
		return nil, errors.Trace(retry.LastError(err))
	}
	return addr, nil
}

// DefaultGateway returns the gateway of the default route through the
// named interface.
func (i *Inspector) DefaultGateway(name string) (string, error) {
	link, err := i.nl.LinkByName(name)
	if err != nil {
		return "", errors.Annotatef(err, "looking up %q", name)
	}
	routes, err := i.nl.RouteList(link, netlink.FAMILY_V4)
	if err != nil {
		return "", errors.Annotatef(err, "listing routes of %q", name)
	}
	for _, route := range routes {
		if route.Gw == nil {
			continue
		}
		if route.Dst == nil || route.Dst.IP.IsUnspecified() {
			return route.Gw.String(), nil
		}
	}
	return "", errors.NotFoundf("default gateway on %q", name)
}

// Node identifies this compute node to the contrail api by its host name
// and the address of the vhost interface.
type Node struct {
	Inspector *Inspector

	// Hostname returns the host name; os.Hostname is used when nil.
	Hostname func() (string, error)
}

// Node is part of the provision.NodeResolver interface.
func (n Node) Node() (contrail.Node, error) {
	hostname := n.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	host, err := hostname()
	if err != nil {
		return contrail.Node{}, errors.Trace(err)
	}
	addr, err := n.Inspector.WaitIPv4Address(VHostInterface)
	if err != nil {
		return contrail.Node{}, errors.Trace(err)
	}
	return contrail.Node{Hostname: host, Address: addr.IP.String()}, nil
}
