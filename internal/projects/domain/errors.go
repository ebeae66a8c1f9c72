package domain

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectIDRequired   = errors.New("project id required")
	ErrSourceImageRequired = errors.New("project source image required")
	ErrSourceNotDurable    = errors.New("source image could not be durably hosted")
	ErrNotOwner            = errors.New("not allowed: public record owned by another user")
	ErrNotAuthenticated    = errors.New("authentication required")
)
