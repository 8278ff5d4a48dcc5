package domain

import "errors"

var (
	ErrSourceNotFound  = errors.New("source not found on Substack")
	ErrDuplicateSource = errors.New("already subscribed to source")
	ErrUnknownSource   = errors.New("no subscription to source")

	ErrAlreadyBanned = errors.New("user is already banned")
	ErrNotBanned     = errors.New("user is not banned")
)
