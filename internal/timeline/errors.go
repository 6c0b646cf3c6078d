package timeline

import "errors"

var (
	// ErrMalformedData means persisted bytes do not describe a timeline.
	ErrMalformedData = errors.New("malformed timeline data")

	// ErrIndexOutOfRange is returned for sample lookups past either end.
	ErrIndexOutOfRange = errors.New("sample index out of range")

	// ErrStorageUnavailable means the storage target is missing or unreadable.
	ErrStorageUnavailable = errors.New("timeline storage unavailable")
)
