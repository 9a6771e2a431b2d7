// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

// Status is a workload status value understood by status-set.
type Status string

const (
	Active      Status = "active"
	Blocked     Status = "blocked"
	Waiting     Status = "waiting"
	Maintenance Status = "maintenance"
)

// StatusSet sets the unit's workload status.
func (ctx *Context) StatusSet(status Status, message string) error {
	_, err := ctx.run("status-set", string(status), message)
	return errors.Trace(err)
}

// Log sends message to the controller log at the given level.
func (ctx *Context) Log(level loggo.Level, message string) error {
	_, err := ctx.run("juju-log", "-l", jujuLogLevel(level), message)
	return errors.Trace(err)
}

func jujuLogLevel(level loggo.Level) string {
	switch {
	case level >= loggo.ERROR:
		return "ERROR"
	case level == loggo.WARNING:
		return "WARNING"
	case level == loggo.INFO:
		return "INFO"
	}
	return "DEBUG"
}

// logWriter forwards loggo entries to juju-log.
type logWriter struct {
	ctx *Context
}

// NewLogWriter returns a loggo.Writer that sends entries at or above
// minLevel to the controller with juju-log.
func NewLogWriter(ctx *Context, minLevel loggo.Level) loggo.Writer {
	return loggo.NewMinimumLevelWriter(&logWriter{ctx: ctx}, minLevel)
}

// Write is part of the loggo.Writer interface.
func (w *logWriter) Write(entry loggo.Entry) {
	// Failures cannot be logged without recursing back here.
	_ = w.ctx.Log(entry.Level, entry.Module+": "+entry.Message)
}
