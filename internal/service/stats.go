package service

import (
	"sync"
	"time"

	"docinsight/internal/domain"
)

// Stats counts what a watcher run has done. It is safe for concurrent use so
// the status server can read it while the poll loop writes.
type Stats struct {
	mu             sync.Mutex
	startedAt      time.Time
	dispatched     int
	stored         int
	skipped        int
	failed         int
	failuresByKind map[domain.ErrorKind]int
	lastPollAt     time.Time
	lastStoredKey  string
}

// NewStats creates an empty Stats starting now.
func NewStats() *Stats {
	return &Stats{
		startedAt:      time.Now().UTC(),
		failuresByKind: map[domain.ErrorKind]int{},
	}
}

func (s *Stats) RecordPoll(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPollAt = at.UTC()
}

func (s *Stats) RecordDispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched++
}

// RecordOutcome counts a finished object. kind is only used for failures.
func (s *Stats) RecordOutcome(outcome domain.Outcome, kind domain.ErrorKind, storedKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch outcome {
	case domain.OutcomeStored:
		s.stored++
		s.lastStoredKey = storedKey
	case domain.OutcomeSkipped:
		s.skipped++
	case domain.OutcomeFailed:
		s.failed++
		s.failuresByKind[kind]++
	}
}

// Snapshot copies the counters into a RunStatus. Poller-owned fields are left zero.
func (s *Stats) Snapshot() domain.RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKind := make(map[domain.ErrorKind]int, len(s.failuresByKind))
	for k, v := range s.failuresByKind {
		byKind[k] = v
	}
	status := domain.RunStatus{
		Dispatched:     s.dispatched,
		Stored:         s.stored,
		Skipped:        s.skipped,
		Failed:         s.failed,
		FailuresByKind: byKind,
		StartedAt:      s.startedAt,
		LastStoredKey:  s.lastStoredKey,
	}
	if !s.lastPollAt.IsZero() {
		at := s.lastPollAt
		status.LastPollAt = &at
	}
	return status
}
