package driven

import "errors"

// ErrFeedNotFound is returned (wrapped) by a ContentSource when a feed is missing.
var ErrFeedNotFound = errors.New("feed not found")
