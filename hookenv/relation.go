// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"sort"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// RelationIds returns the ids of the relations established on the named
// endpoint.
func (ctx *Context) RelationIds(name string) ([]string, error) {
	var ids []string
	if err := ctx.runJSON(&ids, "relation-ids", name); err != nil {
		return nil, errors.Trace(err)
	}
	sort.Strings(ids)
	return ids, nil
}

// RelatedUnits returns the remote units currently participating in the
// relation. During a relation-departed hook the departing unit is no
// longer listed.
func (ctx *Context) RelatedUnits(relationId string) ([]string, error) {
	var units []string
	if err := ctx.runJSON(&units, "relation-list", "-r", relationId); err != nil {
		return nil, errors.Trace(err)
	}
	sort.Strings(units)
	return units, nil
}

// PeerUnits returns every remote unit on any relation of the named
// endpoint.
func (ctx *Context) PeerUnits(name string) (set.Strings, error) {
	units := set.NewStrings()
	ids, err := ctx.RelationIds(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, id := range ids {
		related, err := ctx.RelatedUnits(id)
		if err != nil {
			return nil, errors.Trace(err)
		}
		units = units.Union(set.NewStrings(related...))
	}
	return units, nil
}

// RelationGet returns the value of key published by unit on the relation.
// Empty unit and relationId select the unit and relation of the current
// hook. A value that was never published is returned as "".
func (ctx *Context) RelationGet(key, unit, relationId string) (string, error) {
	args := []string{}
	if relationId != "" {
		args = append(args, "-r", relationId)
	}
	args = append(args, key)
	if unit != "" {
		args = append(args, unit)
	}
	var value *string
	if err := ctx.runJSON(&value, "relation-get", args...); err != nil {
		return "", errors.Trace(err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// RelationSet publishes settings on the relation. An empty value removes
// the key.
func (ctx *Context) RelationSet(relationId string, settings map[string]string) error {
	args := []string{}
	if relationId != "" {
		args = append(args, "-r", relationId)
	}
	args = append(args, settingsArgs(settings)...)
	_, err := ctx.run("relation-set", args...)
	return errors.Trace(err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
