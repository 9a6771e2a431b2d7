// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv gives the charm access to its hook environment by way of
// the juju hook tools: relation data, leader settings, charm configuration,
// workload status and the controller log.
package hookenv

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"

	"github.com/juju/neutron-contrail/hook"
)

var logger = loggo.GetLogger("neutroncontrail.hookenv")

// CommandRunner allows to run commands on the underlying system.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

type defaultRunner struct{}

// RunCommands is part of the CommandRunner interface.
func (defaultRunner) RunCommands(run exec.RunParams) (*exec.ExecResponse, error) {
	return exec.RunCommands(run)
}

// DefaultRunner runs hook tools with exec.RunCommands.
var DefaultRunner CommandRunner = defaultRunner{}

// Environment holds the variables juju sets for a hook.
type Environment struct {
	UnitName   string
	CharmDir   string
	RelationId string
	RemoteUnit string
}

// EnvironmentFromOS reads the hook environment of the current process.
func EnvironmentFromOS() Environment {
	charmDir := os.Getenv("JUJU_CHARM_DIR")
	if charmDir == "" {
		charmDir = os.Getenv("CHARM_DIR")
	}
	return Environment{
		UnitName:   os.Getenv("JUJU_UNIT_NAME"),
		CharmDir:   charmDir,
		RelationId: os.Getenv("JUJU_RELATION_ID"),
		RemoteUnit: os.Getenv("JUJU_REMOTE_UNIT"),
	}
}

// HookEnvironment returns the relation details needed by hook.Parse.
func (env Environment) HookEnvironment() hook.Environment {
	return hook.Environment{
		RelationId: env.RelationId,
		RemoteUnit: env.RemoteUnit,
	}
}

// Context runs hook tools on behalf of the charm.
type Context struct {
	runner CommandRunner
	env    Environment
}

// NewContext returns a Context that runs hook tools with runner.
func NewContext(runner CommandRunner, env Environment) *Context {
	return &Context{runner: runner, env: env}
}

// Environment returns the hook environment the context was created with.
func (ctx *Context) Environment() Environment {
	return ctx.env
}

func (ctx *Context) run(tool string, args ...string) ([]byte, error) {
	command := shellquote.Join(append([]string{tool}, args...)...)
	logger.Tracef("running %s", command)
	result, err := ctx.runner.RunCommands(exec.RunParams{
		Commands:   command,
		WorkingDir: ctx.env.CharmDir,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "running %s", tool)
	}
	if result.Code != 0 {
		return nil, errors.Errorf("%s failed (%d): %s", tool, result.Code, strings.TrimSpace(string(result.Stderr)))
	}
	return result.Stdout, nil
}

func (ctx *Context) runJSON(out interface{}, tool string, args ...string) error {
	args = append([]string{"--format=json"}, args...)
	stdout, err := ctx.run(tool, args...)
	if err != nil {
		return errors.Trace(err)
	}
	if len(strings.TrimSpace(string(stdout))) == 0 {
		return nil
	}
	if err := json.Unmarshal(stdout, out); err != nil {
		return errors.Annotatef(err, "decoding %s output", tool)
	}
	return nil
}

func settingsArgs(settings map[string]string) []string {
	args := make([]string, 0, len(settings))
	for _, key := range sortedKeys(settings) {
		args = append(args, key+"="+settings[key])
	}
	return args
}
