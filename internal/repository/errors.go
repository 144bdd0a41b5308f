// Package repository defines sentinel errors shared across the
// repositories so that higher layers can distinguish failure scenarios
// without inspecting driver-specific error strings everywhere.
package repository

import "errors"

// ErrUsernameExists is returned by UserRepo.Create when the unique index
// on users.username rejects the insert.  Handlers translate this into an
// HTTP 400 validation response.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when no refresh token row matches the
// given value.
var ErrTokenNotFound = errors.New("refresh token not found")

// ErrTokenExpired is returned by VerifyNotExpired after the expired row
// has been deleted.  The caller must treat the token as gone.
var ErrTokenExpired = errors.New("refresh token expired")

// ErrProductNotFound is returned when no product row matches the id.
var ErrProductNotFound = errors.New("product not found")
