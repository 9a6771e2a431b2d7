// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	"github.com/juju/neutron-contrail/charmconfig"
	"github.com/juju/neutron-contrail/conffile"
	"github.com/juju/neutron-contrail/contrail"
	"github.com/juju/neutron-contrail/executor"
	"github.com/juju/neutron-contrail/handler"
	"github.com/juju/neutron-contrail/hook"
	"github.com/juju/neutron-contrail/hookenv"
	"github.com/juju/neutron-contrail/network"
	"github.com/juju/neutron-contrail/service"
	"github.com/juju/neutron-contrail/unitstate"
)

const (
	binaryName = "neutron-contrail"

	loggingConfigEnvKey  = "JUJU_LOGGING_CONFIG"
	defaultLoggingConfig = "<root>=INFO"

	// defaultProvisionTimeout bounds the retries of a provisioning
	// command.
	defaultProvisionTimeout = 300 * time.Second
)

// hookCommand runs one charm hook.
type hookCommand struct {
	cmd.CommandBase

	hookName string
	timeout  time.Duration
	delay    time.Duration
}

func newHookCommand(name string) *hookCommand {
	return &hookCommand{hookName: name}
}

// Info is part of the cmd.Command interface.
func (c *hookCommand) Info() *cmd.Info {
	doc := `
Runs a hook of the neutron-contrail charm. The hook is taken from the
name the binary was invoked as, which is how juju runs it through the
symlinks in the charm's hooks directory. When invoked under its own
name the hook must be given as an argument.
`
	return &cmd.Info{
		Name:    binaryName,
		Args:    "[<hook>]",
		Purpose: "run a neutron-contrail charm hook",
		Doc:     doc,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *hookCommand) SetFlags(f *gnuflag.FlagSet) {
	f.DurationVar(&c.timeout, "provision-timeout", defaultProvisionTimeout, "how long to retry a failing provisioning command")
	f.DurationVar(&c.delay, "provision-delay", executor.DefaultDelay, "pause between provisioning attempts")
}

// Init is part of the cmd.Command interface.
func (c *hookCommand) Init(args []string) error {
	if c.hookName == binaryName {
		if len(args) == 0 {
			return errors.New("no hook specified")
		}
		c.hookName, args = args[0], args[1:]
	}
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *hookCommand) Run(ctx *cmd.Context) error {
	env := hookenv.EnvironmentFromOS()
	info, err := hook.Parse(c.hookName, env.HookEnvironment())
	if errors.Is(err, errors.NotSupported) {
		logger.Infof("unknown hook %s - skipping", c.hookName)
		return nil
	}
	if err != nil {
		return errors.Trace(err)
	}

	hookCtx := hookenv.NewContext(hookenv.DefaultRunner, env)
	if err := configureLogging(hookCtx); err != nil {
		return errors.Trace(err)
	}

	attrs, err := hookCtx.ConfigGetAll()
	if err != nil {
		return errors.Trace(err)
	}
	options, err := charmconfig.Coerce(attrs)
	if err != nil {
		return errors.Trace(err)
	}
	state, err := unitstate.Open(filepath.Join(env.CharmDir, unitstate.FileName), options)
	if err != nil {
		return errors.Trace(err)
	}

	exec, err := executor.New(executor.Config{
		Clock:   clock.WallClock,
		Timeout: c.timeout,
		Delay:   c.delay,
	})
	if err != nil {
		return errors.Trace(err)
	}
	services := service.NewManager(service.NewDBusAPI)
	files := conffile.NewWriter("")
	inspector := network.NewInspector(network.DefaultNetlink, clock.WallClock)

	h, err := handler.New(handler.Config{
		Hook:  info,
		Env:   hookCtx,
		State: state,
		Files: files,
		Gateways: network.NewGateways(network.GatewaysConfig{
			Runner:     hookenv.DefaultRunner,
			Services:   services,
			Interfaces: files,
		}),
		Interfaces:  inspector,
		Services:    services,
		Provisioner: contrail.NewClient(hookenv.DefaultRunner),
		Executor:    exec,
		Node:        network.Node{Inspector: inspector},
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.Handle())
}

// configureLogging applies the model's logging config and forwards
// records to the controller log.
func configureLogging(hookCtx *hookenv.Context) error {
	config := os.Getenv(loggingConfigEnvKey)
	if config == "" {
		config = defaultLoggingConfig
	}
	if err := loggo.ConfigureLoggers(config); err != nil {
		return errors.Annotatef(err, "invalid %s", loggingConfigEnvKey)
	}
	return errors.Trace(loggo.RegisterWriter("juju-log", hookenv.NewLogWriter(hookCtx, loggo.INFO)))
}
