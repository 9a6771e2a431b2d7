// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package network_test

import (
	"net"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/vishvananda/netlink"
	gc "gopkg.in/check.v1"

	"github.com/juju/neutron-contrail/contrail"
	"github.com/juju/neutron-contrail/network"
)

// stubLink stubs netlink.Link
type stubLink struct {
	name string
}

func (l *stubLink) Attrs() *netlink.LinkAttrs {
	return &netlink.LinkAttrs{Name: l.name, Index: 7, MTU: 1500}
}

func (l *stubLink) Type() string {
	return "vhost"
}

type stubNetlink struct {
	addrs  map[string][]netlink.Addr
	routes map[string][]netlink.Route

	// addrCalls counts AddrList calls; onAddrList is called with the
	// count before the addresses are returned.
	addrCalls  int
	onAddrList func(call int)
}

func (s *stubNetlink) LinkByName(name string) (netlink.Link, error) {
	if _, ok := s.addrs[name]; !ok {
		if _, ok := s.routes[name]; !ok {
			return nil, errors.Errorf("Link not found")
		}
	}
	return &stubLink{name: name}, nil
}

func (s *stubNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	s.addrCalls++
	if s.onAddrList != nil {
		s.onAddrList(s.addrCalls)
	}
	return s.addrs[link.Attrs().Name], nil
}

func (s *stubNetlink) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return s.routes[link.Attrs().Name], nil
}

func mustParseAddr(c *gc.C, s string) netlink.Addr {
	addr, err := netlink.ParseAddr(s)
	c.Assert(err, jc.ErrorIsNil)
	return *addr
}

type inspectorSuite struct {
	testing.IsolationSuite

	clock *testclock.Clock
	nl    *stubNetlink
}

var _ = gc.Suite(&inspectorSuite{})

func (s *inspectorSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.clock = testclock.NewClock(time.Now())
	s.nl = &stubNetlink{
		addrs:  make(map[string][]netlink.Addr),
		routes: make(map[string][]netlink.Route),
	}
}

func (s *inspectorSuite) TestIPv4AddressSkipsIPv6(c *gc.C) {
	s.nl.addrs["vhost0"] = []netlink.Addr{
		mustParseAddr(c, "fe80::5054:ff:fedd:eef0/64"),
		mustParseAddr(c, "10.0.0.20/24"),
		mustParseAddr(c, "10.0.0.21/24"),
	}

	addr, err := network.NewInspector(s.nl, s.clock).IPv4Address("vhost0")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(addr.String(), gc.Equals, "10.0.0.20/24")
}

func (s *inspectorSuite) TestIPv4AddressMissing(c *gc.C) {
	s.nl.addrs["vhost0"] = nil

	_, err := network.NewInspector(s.nl, s.clock).IPv4Address("vhost0")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)

	_, err = network.NewInspector(s.nl, s.clock).IPv4Address("eth9")
	c.Assert(err, gc.ErrorMatches, `looking up "eth9": Link not found`)
}

func (s *inspectorSuite) TestWaitIPv4Address(c *gc.C) {
	s.nl.addrs["vhost0"] = nil
	s.nl.onAddrList = func(call int) {
		if call == 3 {
			s.nl.addrs["vhost0"] = []netlink.Addr{mustParseAddr(c, "10.0.0.20/24")}
		}
	}

	type result struct {
		addr *net.IPNet
		err  error
	}
	done := make(chan result, 1)
	go func() {
		addr, err := network.NewInspector(s.nl, s.clock).WaitIPv4Address("vhost0")
		done <- result{addr, err}
	}()
	for i := 0; i < 2; i++ {
		c.Assert(s.clock.WaitAdvance(time.Second, 10*time.Second, 1), jc.ErrorIsNil)
	}
	select {
	case r := <-done:
		c.Assert(r.err, jc.ErrorIsNil)
		c.Assert(r.addr.IP.String(), gc.Equals, "10.0.0.20")
	case <-time.After(10 * time.Second):
		c.Fatalf("timed out waiting for address")
	}
}

func (s *inspectorSuite) TestDefaultGateway(c *gc.C) {
	_, subnet, _ := net.ParseCIDR("10.0.0.0/24")
	s.nl.routes["vhost0"] = []netlink.Route{
		{Dst: subnet},
		{Gw: net.ParseIP("10.0.0.1")},
	}

	gw, err := network.NewInspector(s.nl, s.clock).DefaultGateway("vhost0")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(gw, gc.Equals, "10.0.0.1")
}

func (s *inspectorSuite) TestDefaultGatewayMissing(c *gc.C) {
	s.nl.routes["vhost0"] = nil

	_, err := network.NewInspector(s.nl, s.clock).DefaultGateway("vhost0")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (s *inspectorSuite) TestNode(c *gc.C) {
	s.nl.addrs["vhost0"] = []netlink.Addr{mustParseAddr(c, "10.0.0.20/24")}

	node, err := network.Node{
		Inspector: network.NewInspector(s.nl, s.clock),
		Hostname:  func() (string, error) { return "compute-1", nil },
	}.Node()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(node, gc.Equals, contrail.Node{Hostname: "compute-1", Address: "10.0.0.20"})
}
