package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrMissingColumns   = errors.New("missing required columns")
	ErrUnreadableInput  = errors.New("unreadable input")
	ErrVariantCollision = errors.New("variant mapped to more than one canonical value")
	ErrZoneOverlap      = errors.New("name assigned to more than one zone")
	ErrProviderStatus   = errors.New("routing provider returned non-OK status")
	ErrStoreUnavailable = errors.New("store unavailable")
)
