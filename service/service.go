// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package service starts and restarts the contrail services through
// systemd, and knows which services read which configuration files.
package service

import (
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("neutroncontrail.service")

// DBusAPI is the subset of the systemd dbus connection used here.
type DBusAPI interface {
	Close()
	StartUnit(name string, mode string, ch chan<- string) (int, error)
	RestartUnit(name string, mode string, ch chan<- string) (int, error)
}

// DBusAPIFactory opens a connection to systemd.
type DBusAPIFactory = func() (DBusAPI, error)

// NewDBusAPI connects to the system bus.
var NewDBusAPI DBusAPIFactory = func() (DBusAPI, error) {
	conn, err := dbus.New()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return conn, nil
}

// Manager starts and restarts services.
type Manager struct {
	newDBus DBusAPIFactory
}

// NewManager returns a Manager using newDBus to reach systemd.
func NewManager(newDBus DBusAPIFactory) *Manager {
	return &Manager{newDBus: newDBus}
}

// Start starts the named service if it is not running.
func (m *Manager) Start(name string) error {
	return errors.Trace(m.do("start", name, DBusAPI.StartUnit))
}

// Restart restarts the named services in turn, starting any that are not
// running.
func (m *Manager) Restart(names ...string) error {
	for _, name := range names {
		if err := m.do("restart", name, DBusAPI.RestartUnit); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

type unitOp func(conn DBusAPI, name string, mode string, ch chan<- string) (int, error)

func (m *Manager) do(op, name string, call unitOp) error {
	conn, err := m.newDBus()
	if err != nil {
		return errors.Annotate(err, "connecting to systemd")
	}
	defer conn.Close()

	unit := unitName(name)
	logger.Infof("%s %s", op, unit)
	statusCh := make(chan string, 1)
	if _, err := call(conn, unit, "fail", statusCh); err != nil {
		return errors.Annotatef(err, "dbus %s request for %q failed", op, unit)
	}
	if status := <-statusCh; status != "done" {
		return errors.Errorf("failed to %s %q (API status %q)", op, unit, status)
	}
	return nil
}

func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

// RestartMap maps configuration file paths to the services that read
// them.
type RestartMap map[string][]string

// ServicesFor returns the services to restart after the given files
// changed, in name order and without duplicates.
func (m RestartMap) ServicesFor(changed ...string) []string {
	services := set.NewStrings()
	for _, path := range changed {
		services = services.Union(set.NewStrings(m[path]...))
	}
	return services.SortedValues()
}
