package domain

import "errors"

// Sentinel errors shared across services and handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrAdminRequired      = errors.New("admin access required")
	ErrOwnerRequired      = errors.New("owner access required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrColumnNotFound     = errors.New("column not found")
	ErrTemplateInactive   = errors.New("template is not active")
	ErrCannotRemoveOwner  = errors.New("cannot remove owner")
)
