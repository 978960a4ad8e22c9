// Package services defines the business logic above the request store: the
// catalog, directory, and request services consumed by the conversation
// flow and the ops API. This file centralizes common service-level error
// values so they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing replies is performed by the conversation
// layer and the HTTP handlers, never here.
package services

import "errors"

var (
	// ErrRequestNotFound indicates the identity has no request on record.
	ErrRequestNotFound = errors.New("request not found")

	// ErrUserNotFound indicates the identity is not a registered person in
	// the directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingIdentity is returned when a create attempt carries no
	// requester identity.
	ErrMissingIdentity = errors.New("requester identity is empty")
)
