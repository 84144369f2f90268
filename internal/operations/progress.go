package operations

import (
	"sync"
	"time"
)

// Progress counts the finished steps of a run and estimates the time left
// from the average step duration so far
type Progress struct {
	mu      sync.Mutex
	total   int
	done    []string
	started time.Time
	now     func() time.Time
}

// ProgressSnapshot is a consistent view of a Progress
type ProgressSnapshot struct {
	Done    int
	Total   int
	Percent float64
	Last    string
	// Remaining is only meaningful when Estimated is true
	Remaining time.Duration
	Estimated bool
}

// NewProgress starts tracking a run of total steps
func NewProgress(total int) *Progress {
	return &Progress{total: total, started: time.Now(), now: time.Now}
}

// Done records that stepID finished, whatever its outcome
func (p *Progress) Done(stepID string) {
	p.mu.Lock()
	p.done = append(p.done, stepID)
	p.mu.Unlock()
}

// Snapshot returns the current state
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := ProgressSnapshot{Done: len(p.done), Total: p.total}
	if s.Done > 0 {
		s.Last = p.done[s.Done-1]
	}
	if p.total > 0 {
		s.Percent = float64(s.Done) / float64(p.total) * 100
	}

	switch {
	case s.Done >= p.total:
		s.Estimated = true
	case s.Done > 0:
		elapsed := p.now().Sub(p.started)
		s.Remaining = elapsed / time.Duration(s.Done) * time.Duration(p.total-s.Done)
		s.Estimated = true
	}
	return s
}

// Complete reports whether every step has finished
func (p *Progress) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.done) >= p.total
}
