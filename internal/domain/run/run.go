package run

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter numbers runs within one process
var seqCounter uint64

// Run identifies one load-transform-write pass
type Run struct {
	ID        string    // Unique run identifier (UUID) used to correlate logs and events
	Seq       uint64    // Process-local sequence number
	StartTime time.Time // When the run began
}

// New starts a new run with a unique ID
func New() *Run {
	return &Run{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&seqCounter, 1),
		StartTime: time.Now(),
	}
}

// Elapsed returns the time since the run started
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}
