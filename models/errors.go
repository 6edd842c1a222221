package models

import "fmt"

// Typed errors for the versioning core. The HTTP helper resolves these to
// status codes by concrete type, so each condition gets its own struct.

// ErrorNotFound signals an absent article, version record, category or bot.
type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string {
	return e.Message
}

// ErrorConflict signals an optimistic-lock mismatch. CurrentVersion reports
// the article's true version so the caller can re-fetch and retry.
type ErrorConflict struct {
	Message         string
	CurrentVersion  int
	ObservedVersion int
}

func (e ErrorConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("article was modified by someone else: current version is %d, you have %d",
		e.CurrentVersion, e.ObservedVersion)
}

// ErrorInvalidStateTransition signals a moderation action on a record that
// is not pending review.
type ErrorInvalidStateTransition struct {
	Message string
}

func (e ErrorInvalidStateTransition) Error() string {
	return e.Message
}

// ErrorPatchMismatch signals a diff that cannot be applied to the supplied
// base content.
type ErrorPatchMismatch struct {
	Message string
}

func (e ErrorPatchMismatch) Error() string {
	return e.Message
}

// ErrorHistoryCorrupt signals a reconstruction that found no snapshot base.
type ErrorHistoryCorrupt struct {
	Message string
}

func (e ErrorHistoryCorrupt) Error() string {
	return e.Message
}

// ErrorContentTooLarge signals content over the configured limit, checked
// before any diffing work.
type ErrorContentTooLarge struct {
	Limit int
}

func (e ErrorContentTooLarge) Error() string {
	return fmt.Sprintf("content exceeds the %d byte limit", e.Limit)
}

// ErrorRateLimited signals a rejected write from the rate limiter; nothing
// was mutated.
type ErrorRateLimited struct {
	Message string
}

func (e ErrorRateLimited) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "rate limit exceeded"
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string {
	return e.Message
}
