package media

import "errors"

var (
	// ErrNotAuthorized means access to the media index was not granted.
	// The store does not retry; callers re-dispatch the captured request
	// once the grant arrives.
	ErrNotAuthorized = errors.New("media index access not authorized")

	// ErrIndexQuery means the media index could not be queried at all.
	// Surfaced once per call, never per row.
	ErrIndexQuery = errors.New("media index query failed")

	// ErrNotFound means the requested id is absent from the current
	// enumeration.
	ErrNotFound = errors.New("no record with that id")

	// ErrAssetNotFound means a thumbnail was requested for an id with no
	// resolvable backing asset. Callers translate this to an absent result.
	ErrAssetNotFound = errors.New("no backing asset for id")
)
