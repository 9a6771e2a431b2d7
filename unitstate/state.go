// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package unitstate implements the unit's node-local configuration store.
// The store combines the charm's configuration options with values the
// charm records for itself, and remembers the values saved at the end of
// the previous successful hook so that handlers can see what changed.
package unitstate

import (
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
	"gopkg.in/yaml.v2"
)

var logger = loggo.GetLogger("neutroncontrail.unitstate")

// FileName is the name of the state file inside the charm directory.
const FileName = ".juju-persistent-config"

// Store holds the node-local configuration for the duration of one hook.
// It is not safe for concurrent use; hooks run one at a time.
type Store struct {
	path string

	// options holds the charm configuration for the current hook.
	options map[string]interface{}

	// current holds the values as they stand now.
	current map[string]interface{}

	// previous holds the values saved by the last successful hook.
	previous map[string]interface{}
}

// Open loads the store persisted at path and overlays the supplied charm
// configuration options. A missing file yields an empty store.
func Open(path string, options map[string]interface{}) (*Store, error) {
	previous := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Annotatef(err, "reading unit state %q", path)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &previous); err != nil {
			return nil, errors.Annotatef(err, "invalid unit state %q", path)
		}
	}
	return newStore(path, options, previous), nil
}

// NewMemStore returns a store that is never written to disk. Save on the
// returned store only promotes the current values to previous.
func NewMemStore(options, previous map[string]interface{}) *Store {
	if previous == nil {
		previous = make(map[string]interface{})
	}
	return newStore("", options, previous)
}

func newStore(path string, options, previous map[string]interface{}) *Store {
	current := make(map[string]interface{}, len(previous)+len(options))
	for k, v := range previous {
		current[k] = v
	}
	opts := make(map[string]interface{}, len(options))
	for k, v := range options {
		opts[k] = v
		if v == nil {
			delete(current, k)
			continue
		}
		current[k] = v
	}
	return &Store{
		path:     path,
		options:  opts,
		current:  current,
		previous: previous,
	}
}

// Get returns the current value of key.
func (s *Store) Get(key string) (interface{}, bool) {
	v, ok := s.current[key]
	return v, ok
}

// Has reports whether key currently has a value.
func (s *Store) Has(key string) bool {
	_, ok := s.current[key]
	return ok
}

// String returns the current value of key as a string, or "" when the key
// is unset.
func (s *Store) String(key string) string {
	return asString(s.current[key])
}

// Bool returns the current value of key as a bool. Unset keys are false.
func (s *Store) Bool(key string) bool {
	return asBool(s.current[key])
}

// Int returns the current value of key as an int, and whether a numeric
// value was found.
func (s *Store) Int(key string) (int, bool) {
	return asInt(s.current[key])
}

// Set records a new value for key.
func (s *Store) Set(key string, value interface{}) {
	if _, isOption := s.options[key]; isOption {
		logger.Warningf("overriding charm option %q in unit state", key)
	}
	s.current[key] = value
}

// SetBool records a boolean value for key.
func (s *Store) SetBool(key string, value bool) {
	s.Set(key, value)
}

// SetString records a string value for key.
func (s *Store) SetString(key string, value string) {
	s.Set(key, value)
}

// Remove deletes key from the store.
func (s *Store) Remove(key string) {
	delete(s.current, key)
}

// Previous returns the value key had when the previous hook completed.
func (s *Store) Previous(key string) (interface{}, bool) {
	v, ok := s.previous[key]
	return v, ok
}

// PreviousString returns the previous value of key as a string.
func (s *Store) PreviousString(key string) string {
	return asString(s.previous[key])
}

// PreviousInt returns the previous value of key as an int.
func (s *Store) PreviousInt(key string) (int, bool) {
	return asInt(s.previous[key])
}

// Changed reports whether key differs from its previous value.
func (s *Store) Changed(key string) bool {
	prev, hadPrev := s.previous[key]
	cur, hasCur := s.current[key]
	if hadPrev != hasCur {
		return true
	}
	return asString(prev) != asString(cur)
}

// Save persists the current values. After Save the current values become
// the previous values seen by the next hook.
func (s *Store) Save() error {
	if s.path != "" {
		data, err := yaml.Marshal(s.current)
		if err != nil {
			return errors.Trace(err)
		}
		if err := utils.AtomicWriteFile(s.path, data, 0600); err != nil {
			return errors.Annotatef(err, "writing unit state %q", s.path)
		}
	}
	previous := make(map[string]interface{}, len(s.current))
	for k, v := range s.current {
		previous[k] = v
	}
	s.previous = previous
	return nil
}

func asString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

func asBool(v interface{}) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

func asInt(v interface{}) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	}
	return 0, false
}
