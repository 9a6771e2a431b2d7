// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package executor runs external provisioning actions, retrying failed
// attempts until a total time budget is spent.
package executor

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("neutroncontrail.executor")

const (
	// DefaultTimeout is the total time budget used when Config.Timeout
	// is not set.
	DefaultTimeout = 10 * time.Second

	// DefaultDelay is the pause between attempts used when Config.Delay
	// is not set.
	DefaultDelay = 2 * time.Second
)

// Config holds the parameters of an Executor.
type Config struct {
	// Clock is used to measure elapsed time and to sleep between
	// attempts.
	Clock clock.Clock

	// Timeout is the total budget across all attempts.
	Timeout time.Duration

	// Delay is the pause between two attempts.
	Delay time.Duration
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Timeout < 0 {
		return errors.NotValidf("negative Timeout")
	}
	if config.Delay < 0 {
		return errors.NotValidf("negative Delay")
	}
	return nil
}

// Executor calls a fallible operation until it succeeds or the
// time budget is exhausted. It blocks the calling goroutine while
// sleeping between attempts, and never runs the operation concurrently
// with itself.
type Executor struct {
	clock   clock.Clock
	timeout time.Duration
	delay   time.Duration
}

// New returns an Executor for the supplied config. Zero Timeout and
// Delay values are replaced by DefaultTimeout and DefaultDelay.
func New(config Config) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	e := &Executor{
		clock:   config.Clock,
		timeout: config.Timeout,
		delay:   config.Delay,
	}
	if e.timeout == 0 {
		e.timeout = DefaultTimeout
	}
	if e.delay == 0 {
		e.delay = DefaultDelay
	}
	return e, nil
}

// Run calls f at least once. When f fails, Run sleeps for the configured
// delay, or for whatever is left of the budget if that is shorter, and
// tries again. Once the budget is spent the most recent error is returned.
// f is never started after the deadline has passed.
func (e *Executor) Run(name string, f func() error) error {
	start := e.clock.Now()
	for attempt := 1; ; attempt++ {
		err := f()
		if err == nil {
			if attempt > 1 {
				logger.Debugf("%s succeeded after %d attempts", name, attempt)
			}
			return nil
		}
		elapsed := e.clock.Now().Sub(start)
		if elapsed >= e.timeout {
			return errors.Annotatef(err, "%s failed after %d attempts", name, attempt)
		}
		remaining := e.timeout - elapsed
		logger.Warningf("%s attempt %d failed: %v", name, attempt, err)
		if e.delay < remaining {
			<-e.clock.After(e.delay)
			continue
		}
		// The pause uses up the rest of the budget, so there is no
		// time left for another attempt once it is over.
		<-e.clock.After(remaining)
		return errors.Annotatef(err, "%s failed after %d attempts", name, attempt)
	}
}
