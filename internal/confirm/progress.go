package confirm

// ProgressSink receives hashing progress from the engine: one phase
// bracket per hashing phase and one JobDone call per finished hash job.
//
// The engine does not depend on any particular renderer; a terminal
// progress bar, plain counters, or NopSink all satisfy the interface.
//
// JobDone is called from worker goroutines and must be safe for concurrent
// use. BeginPhase and EndPhase are called from the phase driver, never
// concurrently with each other, and every JobDone for a phase
// happens-before that phase's EndPhase.
type ProgressSink interface {
	// BeginPhase announces a phase and the number of jobs it will hash.
	BeginPhase(name string, total int)

	// JobDone records one completed hash job.
	JobDone()

	// EndPhase marks the current phase finished.
	EndPhase()
}

// NopSink is a ProgressSink that discards all events.
type NopSink struct{}

// BeginPhase implements ProgressSink.
func (NopSink) BeginPhase(string, int) {}

// JobDone implements ProgressSink.
func (NopSink) JobDone() {}

// EndPhase implements ProgressSink.
func (NopSink) EndPhase() {}
