// Package history is the append-only status-transition audit trail. Records
// are only ever inserted and read back newest-first; nothing updates or
// deletes them.
package history

import "time"

// MaxFeedLimit caps a single activity-feed page.
const MaxFeedLimit = 200

// DefaultFeedLimit applies when the caller does not specify one.
const DefaultFeedLimit = 50

// FeedOptions pages the activity feed.
type FeedOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps the options into their supported ranges.
func (o FeedOptions) Normalize() FeedOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultFeedLimit
	}
	if o.Limit > MaxFeedLimit {
		o.Limit = MaxFeedLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Clock is injected into stores for testability; defaults to time.Now.
type Clock func() time.Time
