// Package id provides ULID generation for request identification.
//
// ULIDs are lexicographically sortable, so request logs order by time
// without a separate timestamp column.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one API request
type RequestID string

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRequestID generates a prefixed ULID for an API request.
func NewRequestID() RequestID {
	return RequestID("req_" + newULID())
}

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
