package snapshot

import "errors"

var (
	// ErrInvalidFormat is returned for documents that are not snapshots.
	ErrInvalidFormat = errors.New("invalid snapshot format")

	// ErrUnsupportedVersion is returned for snapshots of an unknown major version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrNotFound is returned when a stored snapshot does not exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrInvalidName is returned for snapshot names that cannot be stored.
	ErrInvalidName = errors.New("invalid snapshot name")
)
