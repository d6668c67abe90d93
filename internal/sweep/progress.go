package sweep

import (
	"sync"
	"time"
)

// Status is the lifecycle state of a sweep.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Snapshot is a point-in-time copy of sweep progress, served by the status endpoint.
type Snapshot struct {
	RunID     string    `json:"runId"`
	Design    string    `json:"design"`
	Seed      uint64    `json:"seed"`
	Status    Status    `json:"status"`
	Requested int       `json:"requested"`
	Completed int       `json:"completed"`
	Current   int       `json:"current"`
	Failure   string    `json:"failure,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}

// Progress tracks one sweep. Safe for concurrent use: the sweep writes, the status server reads.
type Progress struct {
	mu   sync.RWMutex
	snap Snapshot
}

func newProgress(runID string, seed uint64) *Progress {
	return &Progress{snap: Snapshot{RunID: runID, Seed: seed, Status: StatusPending, Current: -1}}
}

// Snapshot returns a copy of the current progress.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Progress) start(design string, requested int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Design = design
	p.snap.Requested = requested
	p.snap.Completed = 0
	p.snap.Current = -1
	p.snap.Failure = ""
	p.snap.Status = StatusRunning
	p.snap.StartedAt = time.Now()
}

func (p *Progress) begin(iteration int) {
	p.mu.Lock()
	p.snap.Current = iteration
	p.mu.Unlock()
}

func (p *Progress) complete() {
	p.mu.Lock()
	p.snap.Completed++
	p.mu.Unlock()
}

func (p *Progress) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.snap.Status = StatusFailed
		p.snap.Failure = err.Error()
		return
	}
	p.snap.Status = StatusSucceeded
}
