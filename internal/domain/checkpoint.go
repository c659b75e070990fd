package domain

import "time"

// Checkpoint marks the logical "as-of" time of a completed synchronization
// cycle. The checkpoint log is append-only; Sequence is assigned by the store
// and grows monotonically. A cycle that fails before completion appends
// nothing.
type Checkpoint struct {
	Sequence  int64
	Timestamp time.Time
}
