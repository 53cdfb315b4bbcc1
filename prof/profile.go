// Package prof collects wall clock timings of labelled operations.
package prof

import (
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Recorder accumulates entries. The zero value is ready to use and safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Track records the time elapsed since start under label.
func (r *Recorder) Track(start time.Time, label string) {
	elapsed := time.Since(start)
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Label: label, Dur: elapsed})
	r.mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func (r *Recorder) SnapshotAndReset() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.entries
	r.entries = nil
	return out
}

var std Recorder

// Track records into the process-wide recorder.
func Track(start time.Time, label string) { std.Track(start, label) }

// SnapshotAndReset drains the process-wide recorder.
func SnapshotAndReset() []Entry { return std.SnapshotAndReset() }

// ByLabel groups durations by label. labels lists each label once, in
// order of first appearance.
func ByLabel(entries []Entry) (labels []string, durs map[string][]time.Duration) {
	durs = make(map[string][]time.Duration)
	for _, e := range entries {
		if _, ok := durs[e.Label]; !ok {
			labels = append(labels, e.Label)
		}
		durs[e.Label] = append(durs[e.Label], e.Dur)
	}
	return labels, durs
}
