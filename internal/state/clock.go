package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// sessionClock hands out a unique id and a per-tracker sequence number
// for every session that gets started.
type sessionClock struct {
	seq   atomic.Uint64
	newID func() string
}

func newSessionClock() *sessionClock {
	return &sessionClock{newID: uuid.NewString}
}

func (c *sessionClock) next() (string, uint64) {
	return c.newID(), c.seq.Add(1)
}
