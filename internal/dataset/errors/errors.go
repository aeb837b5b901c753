package errors

import "errors"

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrStoreDisabled = errors.New("snapshot store is not configured")

	ErrCorruptSnapshot = errors.New("stored snapshot is incomplete")
)
