package model

import "errors"

var (
	// Token related errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenMissing = errors.New("token missing from login response")

	// Session related errors
	ErrNoSession = errors.New("no active session")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
