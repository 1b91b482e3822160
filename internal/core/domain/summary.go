package domain

import (
	"slices"
	"strings"
)

// OutcomeStatus is the final state of one addon in a sync run.
type OutcomeStatus string

const (
	// StatusUpdated means the addon was downloaded, extracted and recorded.
	StatusUpdated OutcomeStatus = "updated"
	// StatusCurrent means the persisted lock was already up to date.
	StatusCurrent OutcomeStatus = "current"
	// StatusFailed means resolution, download or extraction failed.
	StatusFailed OutcomeStatus = "failed"
)

// Outcome records what happened to one addon.
type Outcome struct {
	Key    string
	Status OutcomeStatus
	// Lock is the freshly resolved lock. It is zero when resolution failed.
	Lock ResolvedLock
	Err  error
}

// Summary collects per-addon outcomes of a sync run.
type Summary struct {
	Outcomes []Outcome
}

// Add records an outcome.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// ByStatus returns the outcomes with the given status sorted by key.
func (s *Summary) ByStatus(status OutcomeStatus) []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Status == status {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b Outcome) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Updated returns the locks that were downloaded this run.
func (s *Summary) Updated() []ResolvedLock {
	var locks []ResolvedLock
	for _, o := range s.Outcomes {
		if o.Status == StatusUpdated {
			locks = append(locks, o.Lock)
		}
	}
	return locks
}

// Failed reports the number of failed addons.
func (s *Summary) Failed() int {
	return len(s.ByStatus(StatusFailed))
}
