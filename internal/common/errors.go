// Package common defines shared constants and sentinel errors used across
// treeboard components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository / store-level errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("backend unavailable")

	// A remote call exceeded its network or safety deadline. The action may
	// still have succeeded on the backend.
	ErrRequestTimeout = errors.New("request timeout")

	// The sender already has a message on this recipient's tree.
	ErrDuplicateMessage = errors.New("message already exists for this recipient")

	// A submission is already in flight on this controller.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// Validation errors.
	ErrEmptyContent   = errors.New("message content is empty")
	ErrContentTooLong = errors.New("message content exceeds length limit")

	// Customization errors.
	ErrLockedStyle = errors.New("style is locked")
)
