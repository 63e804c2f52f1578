package hybridshare

import "errors"

var (
	// ErrDriverNotSupported is returned when the configured driver is neither session nor cache.
	ErrDriverNotSupported = errors.New("hybridshare.driver_not_supported")

	// ErrPrimaryKeyNotFound is returned when a driver is used without a bound identity,
	// or when ForUser is called while the session driver is active.
	ErrPrimaryKeyNotFound = errors.New("hybridshare.primary_key_not_found")

	// ErrUnsupportedRuntime is returned when a value holds a computation that has no
	// portable representation: raw Go funcs or deferred values without a registered resolver.
	ErrUnsupportedRuntime = errors.New("hybridshare.unsupported_runtime")

	// ErrNoShare is returned when no share is bound to the context.
	ErrNoShare = errors.New("hybridshare.no_share_in_context")

	// ErrNoStore is returned when the selected driver has no backing store configured.
	ErrNoStore = errors.New("hybridshare.no_store")
)
