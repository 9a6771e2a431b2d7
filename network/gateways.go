// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package network makes the operating system changes needed by the
// vrouter: virtual gateway interfaces, ip forwarding and the lookup of
// the vhost interface address.
package network

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"

	"github.com/juju/neutron-contrail/gateway"
)

var logger = loggo.GetLogger("neutroncontrail.network")

const (
	// SysctlDir holds the sysctl settings applied at boot.
	SysctlDir = "/etc/sysctl.d"

	forwardingFile = "60-vrouter-vgw.conf"
	forwarding     = "net.ipv4.ip_forward = 1\n"
)

// CommandRunner allows to run commands on the underlying system.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

// ServiceStarter starts system services.
type ServiceStarter interface {
	Start(name string) error
}

// InterfacesWriter writes the interface definitions of the gateways.
type InterfacesWriter interface {
	WriteGatewayInterfaces(spec gateway.Spec) (bool, error)
}

// GatewaysConfig holds the dependencies of Gateways.
type GatewaysConfig struct {
	Runner     CommandRunner
	Services   ServiceStarter
	Interfaces InterfacesWriter

	// SysctlDir defaults to SysctlDir.
	SysctlDir string
}

// Gateways applies virtual gateway changes to the host.
type Gateways struct {
	config GatewaysConfig
}

var _ gateway.Actions = (*Gateways)(nil)

// NewGateways returns Gateways for config.
func NewGateways(config GatewaysConfig) *Gateways {
	if config.SysctlDir == "" {
		config.SysctlDir = SysctlDir
	}
	return &Gateways{config: config}
}

// InterfacesDown is part of the gateway.Actions interface.
func (g *Gateways) InterfacesDown(names []string) error {
	logger.Infof("taking down %s", strings.Join(names, ", "))
	return errors.Trace(g.run("ifdown", names...))
}

// InterfacesUp is part of the gateway.Actions interface.
func (g *Gateways) InterfacesUp(names []string) error {
	logger.Infof("bringing up %s", strings.Join(names, ", "))
	return errors.Trace(g.run("ifup", names...))
}

// WriteInterfaces is part of the gateway.Actions interface.
func (g *Gateways) WriteInterfaces(spec gateway.Spec) (bool, error) {
	changed, err := g.config.Interfaces.WriteGatewayInterfaces(spec)
	return changed, errors.Trace(err)
}

// EnableForwarding installs the ip forwarding sysctl setting and applies
// it by starting procps.
func (g *Gateways) EnableForwarding() error {
	path := g.forwardingPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	if err := utils.AtomicWriteFile(path, []byte(forwarding), 0644); err != nil {
		return errors.Annotate(err, "enabling ip forwarding")
	}
	return errors.Trace(g.config.Services.Start("procps"))
}

// DisableForwarding removes the ip forwarding setting and turns
// forwarding off.
func (g *Gateways) DisableForwarding() error {
	path := g.forwardingPath()
	if err := os.Remove(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Annotate(err, "disabling ip forwarding")
	}
	return errors.Trace(g.run("sysctl", "-qw", "net.ipv4.ip_forward=0"))
}

func (g *Gateways) forwardingPath() string {
	return filepath.Join(g.config.SysctlDir, forwardingFile)
}

func (g *Gateways) run(command string, args ...string) error {
	result, err := g.config.Runner.RunCommands(exec.RunParams{
		Commands: shellquote.Join(append([]string{command}, args...)...),
	})
	if err != nil {
		return errors.Annotatef(err, "running %s", command)
	}
	if result.Code != 0 {
		return errors.Errorf("%s failed (%d): %s", command, result.Code, strings.TrimSpace(string(result.Stderr)))
	}
	return nil
}
