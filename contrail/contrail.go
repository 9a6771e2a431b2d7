// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package contrail runs the contrail provisioning commands that register
// and remove resources in the contrail configuration api.
package contrail

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"

	"github.com/juju/neutron-contrail/credentials"
)

var logger = loggo.GetLogger("neutroncontrail.contrail")

// Op is the provisioning operation passed with --oper.
type Op string

const (
	Add Op = "add"
	Del Op = "del"
)

// Node identifies the compute node being provisioned.
type Node struct {
	Hostname string
	Address  string
}

// LinkLocal describes a link local service and the fabric endpoint that
// backs it.
type LinkLocal struct {
	Name        string
	ServiceIP   string
	ServicePort int
	FabricIP    string
	FabricPort  int
}

// Metadata is the nova metadata service proxied by the local vrouter.
var Metadata = LinkLocal{
	Name:        "metadata",
	ServiceIP:   "169.254.169.254",
	ServicePort: 80,
	FabricIP:    "127.0.0.1",
	FabricPort:  8775,
}

// CommandRunner allows to run commands on the underlying system.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

// Client runs the provisioning commands.
type Client struct {
	runner CommandRunner
}

// NewClient returns a Client running commands with runner.
func NewClient(runner CommandRunner) *Client {
	return &Client{runner: runner}
}

// ProvisionVRouter adds or deletes the vrouter entry for node.
func (c *Client) ProvisionVRouter(op Op, node Node, creds credentials.Bundle) error {
	logger.Infof("%s vrouter %s (%s)", op, node.Hostname, node.Address)
	return errors.Trace(c.run("contrail-provision-vrouter",
		"--host_name", node.Hostname,
		"--host_ip", node.Address,
		"--api_server_ip", creds.APIAddress,
		"--api_server_port", strconv.Itoa(creds.APIPort),
		"--oper", string(op),
		"--admin_user", creds.Username,
		"--admin_password", creds.Password,
		"--admin_tenant_name", creds.Tenant,
	))
}

// ProvisionLinkLocal adds or deletes the link local service svc.
func (c *Client) ProvisionLinkLocal(op Op, svc LinkLocal, creds credentials.Bundle) error {
	logger.Infof("%s link local service %s %s:%d", op, svc.Name, svc.FabricIP, svc.FabricPort)
	return errors.Trace(c.run("contrail-provision-linklocal",
		"--api_server_ip", creds.APIAddress,
		"--api_server_port", strconv.Itoa(creds.APIPort),
		"--linklocal_service_name", svc.Name,
		"--linklocal_service_ip", svc.ServiceIP,
		"--linklocal_service_port", strconv.Itoa(svc.ServicePort),
		"--ipfabric_service_ip", svc.FabricIP,
		"--ipfabric_service_port", strconv.Itoa(svc.FabricPort),
		"--oper", string(op),
		"--admin_user", creds.Username,
		"--admin_password", creds.Password,
	))
}

func (c *Client) run(command string, args ...string) error {
	result, err := c.runner.RunCommands(exec.RunParams{
		Commands: shellquote.Join(append([]string{command}, args...)...),
	})
	if err != nil {
		return errors.Annotatef(err, "running %s", command)
	}
	if result.Code != 0 {
		// Never include the arguments: they carry the admin password.
		return errors.Errorf("%s exited %d: %s", command, result.Code, strings.TrimSpace(string(result.Stderr)))
	}
	return nil
}
