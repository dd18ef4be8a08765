package snapshot

import "errors"

var (
	// ErrBadMagic is returned when the data is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrUnsupportedVersion is returned when the format version is newer than this reader.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")

	// ErrUnknownCodec is returned when the header names a codec that is not available.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrCorrupt is returned when a checksum, length or decode check fails.
	ErrCorrupt = errors.New("snapshot: corrupt data")

	// ErrNotFound is returned when a table has no committed snapshot.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrInvalidName is returned for table names that cannot be used as a path segment.
	ErrInvalidName = errors.New("snapshot: invalid table name")

	// ErrCommitConflict is returned when Commit could not claim a version number.
	ErrCommitConflict = errors.New("snapshot: commit conflict")
)
