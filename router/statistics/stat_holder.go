package statistics

import "time"

// StatHolder receives per-query timings from a backend handler.
type StatHolder interface {
	RecordPhase(phase Phase, d time.Duration)
	RecordQuery(failed bool)
}
