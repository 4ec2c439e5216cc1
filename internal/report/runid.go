package report

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRunID returns a stable, sortable, collision-resistant identifier for
// one purification or lint run, so repeated runs over the same file can be
// correlated across log lines the way the teacher correlates task/event
// IDs.
func NewRunID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
