// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"github.com/juju/errors"
)

// ConfigGetAll returns every charm configuration option. Options without a
// value are returned with a nil value.
func (ctx *Context) ConfigGetAll() (map[string]interface{}, error) {
	config := make(map[string]interface{})
	if err := ctx.runJSON(&config, "config-get", "--all"); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}
