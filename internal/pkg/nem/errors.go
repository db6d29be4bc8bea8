package nem

import "errors"

var (
	// ErrUnknownRegion means a requested short code is not in the region table.
	// Raised before any network activity.
	ErrUnknownRegion = errors.New("unknown region code")

	// ErrDataUnavailable means a requested region has no data in one of the
	// required feeds for the current call.
	ErrDataUnavailable = errors.New("region data unavailable")

	// ErrIntegrity means an upstream record does not land on the 5 minute
	// settlement grid.
	ErrIntegrity = errors.New("record outside settlement grid")
)
