/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/selfask/agents/transcript"
	"github.com/chainguard-dev/clog"
)

// Reason classifies why a run failed.
type Reason string

const (
	// ReasonConfiguration means the chain was built from inconsistent parts,
	// such as a template whose placeholders do not match its variables.
	ReasonConfiguration Reason = "configuration"
	// ReasonUnparseableOutput means the model output matched no recognized
	// pattern, even after the allowed regeneration.
	ReasonUnparseableOutput Reason = "unparseable_output"
	// ReasonIterationLimitExceeded means the model kept asking follow-up
	// questions past the configured cap.
	ReasonIterationLimitExceeded Reason = "iteration_limit_exceeded"
	// ReasonCollaboratorFailure means the completion backend or a tool failed.
	ReasonCollaboratorFailure Reason = "collaborator_failure"
	// ReasonCancelled means the caller's context ended the run.
	ReasonCancelled Reason = "cancelled"
)

// Error is the failure returned by Chain.Run and by chain constructors.
type Error struct {
	Reason Reason
	// Cause is the underlying error, if any.
	Cause error
	// Transcript holds the segments recorded before the failure.
	Transcript []transcript.Segment
	// Iterations is the number of completed tool cycles.
	Iterations int
}

// Error implements error.
func (e *Error) Error() string {
	msg := string(e.Reason)
	if e.Iterations > 0 {
		msg = fmt.Sprintf("%s after %d iterations", msg, e.Iterations)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Reason, so that
// errors.Is(err, chain.ErrCancelled) matches any cancelled run.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// Sentinels for use with errors.Is.
var (
	ErrConfiguration          = &Error{Reason: ReasonConfiguration}
	ErrUnparseableOutput      = &Error{Reason: ReasonUnparseableOutput}
	ErrIterationLimitExceeded = &Error{Reason: ReasonIterationLimitExceeded}
	ErrCollaboratorFailure    = &Error{Reason: ReasonCollaboratorFailure}
	ErrCancelled              = &Error{Reason: ReasonCancelled}
)

// ReasonOf returns the Reason carried by err, or "" if err is not an *Error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// ConfigurationError wraps a construction failure.
func ConfigurationError(cause error) error {
	return &Error{Reason: ReasonConfiguration, Cause: cause}
}

// CollaboratorError classifies a failure returned by a completion client or
// tool. A failure observed after ctx is done is reported as cancellation.
func CollaboratorError(ctx context.Context, cause error, segments []transcript.Segment, iterations int) error {
	reason := ReasonCollaboratorFailure
	if ctx.Err() != nil {
		reason = ReasonCancelled
	}
	return &Error{Reason: reason, Cause: cause, Transcript: segments, Iterations: iterations}
}

// CheckCancelled returns a cancellation error if ctx is done.
func CheckCancelled(ctx context.Context, segments []transcript.Segment, iterations int) error {
	if err := ctx.Err(); err != nil {
		return &Error{Reason: ReasonCancelled, Cause: err, Transcript: segments, Iterations: iterations}
	}
	return nil
}

// LogFailure logs a failed run with the logger on ctx. Cancellations are
// logged at Warn, every other failure at Error.
func LogFailure(ctx context.Context, err error, args ...any) {
	log := clog.FromContext(ctx).With(args...).With("error", err)
	if ReasonOf(err) == ReasonCancelled {
		log.Warn("Run cancelled")
		return
	}
	log.Error("Run failed")
}
