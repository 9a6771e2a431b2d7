// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"github.com/juju/errors"
)

// IsLeader reports whether the unit is the application leader.
func (ctx *Context) IsLeader() (bool, error) {
	var leader bool
	if err := ctx.runJSON(&leader, "is-leader"); err != nil {
		return false, errors.Annotatef(err, "leadership status unknown")
	}
	return leader, nil
}

// LeaderGet returns the leader setting for key, or "" when it is not set.
func (ctx *Context) LeaderGet(key string) (string, error) {
	var value *string
	if err := ctx.runJSON(&value, "leader-get", key); err != nil {
		return "", errors.Trace(err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// LeaderSet writes leader settings. Only the leader may call it; an empty
// value removes the key.
func (ctx *Context) LeaderSet(settings map[string]string) error {
	leader, err := ctx.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	if !leader {
		return errors.NotSupportedf("leader-set on non-leader unit %q", ctx.env.UnitName)
	}
	_, err = ctx.run("leader-set", settingsArgs(settings)...)
	return errors.Trace(err)
}
