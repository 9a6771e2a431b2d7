// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package conffile renders the configuration files read by the vrouter
// agent and the contrail tools. Every writer reports whether the file
// content changed, so callers know which services to restart.
package conffile

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
	"gopkg.in/ini.v1"

	"github.com/juju/neutron-contrail/credentials"
	"github.com/juju/neutron-contrail/gateway"
)

var logger = loggo.GetLogger("neutroncontrail.conffile")

// Paths of the files written.
const (
	VNCAPIPath            = "/etc/contrail/vnc_api_lib.ini"
	AgentPath             = "/etc/contrail/contrail-vrouter-agent.conf"
	NodeMgrPath           = "/etc/contrail/contrail-vrouter-nodemgr.conf"
	GatewayInterfacesPath = "/etc/network/interfaces.d/vrouter-vgw.cfg"
)

// GatewayDomain is the contrail domain of the virtual gateway networks.
const GatewayDomain = "default-domain"

// Discovery locates the contrail discovery service.
type Discovery struct {
	Server string
	Port   int
}

// VNCAPI is the content of vnc_api_lib.ini.
type VNCAPI struct {
	APIServer string
	APIPort   int

	// Identity is nil until the identity service is known.
	Identity *credentials.Identity
}

// VHost describes the vhost interface.
type VHost struct {
	// Address is in CIDR form.
	Address  string
	Gateway  string
	Physical string
}

// Agent is the content of contrail-vrouter-agent.conf.
type Agent struct {
	ControlNodes     []string
	Discovery        Discovery
	MetadataSecret   string
	ControlNetworkIP string
	VHost            VHost
	Gateways         gateway.Spec
}

// NodeMgr is the content of contrail-vrouter-nodemgr.conf.
type NodeMgr struct {
	Discovery Discovery
}

// Writer writes the configuration files below a root directory.
type Writer struct {
	root string
}

// NewWriter returns a Writer. An empty root means "/".
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Path returns where the file at path is written.
func (w *Writer) Path(path string) string {
	if w.root == "" {
		return path
	}
	return filepath.Join(w.root, path)
}

// WriteVNCAPI writes vnc_api_lib.ini.
func (w *Writer) WriteVNCAPI(conf VNCAPI) (bool, error) {
	f := ini.Empty()
	global := newSection(f, "global")
	if conf.APIServer != "" {
		setKey(global, "WEB_SERVER", conf.APIServer)
		setKey(global, "WEB_PORT", strconv.Itoa(conf.APIPort))
	}
	setKey(global, "BASE_URL", "/")

	auth := newSection(f, "auth")
	if id := conf.Identity; id != nil {
		setKey(auth, "AUTHN_TYPE", "keystone")
		setKey(auth, "AUTHN_PROTOCOL", "http")
		setKey(auth, "AUTHN_SERVER", id.Host)
		setKey(auth, "AUTHN_PORT", id.Port)
		setKey(auth, "AUTHN_URL", "/v2.0/tokens")
	} else {
		setKey(auth, "AUTHN_TYPE", "noauth")
	}
	return w.writeINI(VNCAPIPath, f, 0644)
}

// WriteAgent writes contrail-vrouter-agent.conf.
func (w *Writer) WriteAgent(conf Agent) (bool, error) {
	f := ini.Empty()
	if len(conf.ControlNodes) > 0 {
		setKey(newSection(f, "CONTROL-NODE"), "server", strings.Join(conf.ControlNodes, " "))
	}
	if conf.Discovery.Server != "" {
		discovery := newSection(f, "DISCOVERY")
		setKey(discovery, "server", conf.Discovery.Server)
		setKey(discovery, "max_control_nodes", "2")
	}
	if conf.MetadataSecret != "" {
		setKey(newSection(f, "METADATA"), "metadata_proxy_secret", conf.MetadataSecret)
	}
	if conf.ControlNetworkIP != "" {
		setKey(newSection(f, "NETWORKS"), "control_network_ip", conf.ControlNetworkIP)
	}

	vhost := newSection(f, "VIRTUAL-HOST-INTERFACE")
	setKey(vhost, "name", "vhost0")
	if conf.VHost.Address != "" {
		setKey(vhost, "ip", conf.VHost.Address)
	}
	if conf.VHost.Gateway != "" {
		setKey(vhost, "gateway", conf.VHost.Gateway)
	}
	setKey(vhost, "physical_interface", conf.VHost.Physical)

	for i, gw := range conf.Gateways {
		sec := newSection(f, "GATEWAY-"+strconv.Itoa(i))
		setKey(sec, "routing_instance", routingInstance(gw))
		setKey(sec, "interface", gw.Interface)
		setKey(sec, "ip_blocks", strings.Join(gw.Subnets, " "))
		if len(gw.Routes) > 0 {
			setKey(sec, "routes", strings.Join(gw.Routes, " "))
		}
	}
	return w.writeINI(AgentPath, f, 0440)
}

// WriteNodeMgr writes contrail-vrouter-nodemgr.conf.
func (w *Writer) WriteNodeMgr(conf NodeMgr) (bool, error) {
	f := ini.Empty()
	if conf.Discovery.Server != "" {
		discovery := newSection(f, "DISCOVERY")
		setKey(discovery, "server", conf.Discovery.Server)
		setKey(discovery, "port", strconv.Itoa(conf.Discovery.Port))
	}
	return w.writeINI(NodeMgrPath, f, 0644)
}

var interfacesTemplate = template.Must(template.New("vrouter-vgw.cfg").Parse(`# Generated by the neutron-contrail charm.
{{range $gw := .}}
auto {{$gw.Interface}}
iface {{$gw.Interface}} inet manual
    pre-up vif --create {{$gw.Interface}} --mac 00:00:5e:00:01:00
    pre-up ip link set {{$gw.Interface}} up
{{- range $gw.Subnets}}
    post-up ip route add {{.}} dev {{$gw.Interface}}
{{- end}}
    post-down ip link set {{$gw.Interface}} down
    post-down vif --delete {{$gw.Interface}}
{{end}}`))

// WriteGatewayInterfaces writes the ifupdown definitions of the virtual
// gateway interfaces. An empty spec gives a file with no interfaces.
func (w *Writer) WriteGatewayInterfaces(spec gateway.Spec) (bool, error) {
	var buf bytes.Buffer
	if err := interfacesTemplate.Execute(&buf, spec); err != nil {
		return false, errors.Trace(err)
	}
	return w.write(GatewayInterfacesPath, buf.Bytes(), 0644)
}

func routingInstance(gw gateway.Gateway) string {
	project, network := gw.Project, gw.Network
	if project == "" {
		project = "admin"
	}
	if network == "" {
		network = "public"
	}
	return strings.Join([]string{GatewayDomain, project, network, network}, ":")
}

func newSection(f *ini.File, name string) *ini.Section {
	// NewSection only fails for an empty name.
	sec, _ := f.NewSection(name)
	return sec
}

func setKey(sec *ini.Section, key, value string) {
	// NewKey only fails for an empty key name.
	_, _ = sec.NewKey(key, value)
}

func (w *Writer) writeINI(path string, f *ini.File, perm os.FileMode) (bool, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return false, errors.Annotatef(err, "rendering %s", path)
	}
	return w.write(path, buf.Bytes(), perm)
}

func (w *Writer) write(path string, data []byte, perm os.FileMode) (bool, error) {
	target := w.Path(path)
	existing, err := os.ReadFile(target)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Annotatef(err, "reading %s", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, errors.Trace(err)
	}
	if err := utils.AtomicWriteFile(target, data, perm); err != nil {
		return false, errors.Annotatef(err, "writing %s", target)
	}
	logger.Infof("wrote %s", target)
	return true, nil
}
