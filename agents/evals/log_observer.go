/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"context"
	"sync/atomic"

	"github.com/chainguard-dev/clog"
)

// LogObserver reports evaluation results through the clog logger carried by
// a context. It is the base observer for command-line eval runs.
type LogObserver struct {
	log   *clog.Logger
	count atomic.Int64
}

var _ Observer = (*LogObserver)(nil)

// NewLogObserver returns a LogObserver that tags every message with namespace.
func NewLogObserver(ctx context.Context, namespace string) *LogObserver {
	return &LogObserver{log: clog.FromContext(ctx).With("eval", namespace)}
}

// Fail implements Observer.
func (l *LogObserver) Fail(msg string) {
	l.log.With("reason", msg).Warn("Evaluation failed")
}

// Log implements Observer.
func (l *LogObserver) Log(msg string) {
	l.log.Debug(msg)
}

// Grade implements Observer.
func (l *LogObserver) Grade(score float64, reasoning string) {
	l.log.With("score", score).With("reasoning", reasoning).Debug("Evaluation graded")
}

// Increment implements Observer.
func (l *LogObserver) Increment() {
	l.count.Add(1)
}

// Total implements Observer.
func (l *LogObserver) Total() int64 {
	return l.count.Load()
}
