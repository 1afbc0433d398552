package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrFeedClosed = errors.New("feed closed")
)
