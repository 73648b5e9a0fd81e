package fft

import "errors"

var (
	// ErrInvalidSize is returned for sizes that are not a power of two >= 2.
	ErrInvalidSize = errors.New("fft: size must be a power of two >= 2")

	// ErrLengthMismatch is returned when a buffer does not hold N*N values.
	ErrLengthMismatch = errors.New("fft: buffer length does not match plan")

	// ErrUnavailable is returned by backends that cannot run on this host.
	ErrUnavailable = errors.New("fft: backend unavailable")
)
