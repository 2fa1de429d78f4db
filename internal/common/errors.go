// Package common defines shared constants and sentinel errors used across
// LinkStash layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrUpdateFailed = errors.New("update matched no records")
	ErrStorage      = errors.New("storage error")

	// Tree-service validation errors.
	ErrInvalidPlacement = errors.New("a link must live inside a group-owned folder")
	ErrTooManyRoots     = errors.New("at most one root folder may be created per call")
	ErrEmptyRequest     = errors.New("empty request")

	// Account / auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrInvalidToken = errors.New("invalid token")
)
