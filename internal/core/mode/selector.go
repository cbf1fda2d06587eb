package mode

import (
	"math/rand"
	"time"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/core/model"
)

// Candidate is an eligible mode together with its evaluation.
type Candidate struct {
	Mode     Mode
	Priority Priority
	State    display.State
}

// Evaluate runs every mode in catalog order and keeps the eligible ones.
func Evaluate(event *model.Event, now time.Time) []Candidate {
	var candidates []Candidate
	for _, mode := range All() {
		priority, state, ok := mode.Evaluate(event, now)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{Mode: mode, Priority: priority, State: state})
	}
	return candidates
}

// MaxPriority returns the highest priority among candidates, or Fallback.
func MaxPriority(candidates []Candidate) Priority {
	highest := Fallback
	for _, candidate := range candidates {
		if candidate.Priority > highest {
			highest = candidate.Priority
		}
	}
	return highest
}

// SelectMax keeps the candidates sharing the highest priority, in order.
func SelectMax(candidates []Candidate) []Candidate {
	highest := MaxPriority(candidates)
	selected := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Priority == highest {
			selected = append(selected, candidate)
		}
	}
	return selected
}

// Rotator picks among equally ranked candidates, preferring modes that have
// not been shown since the last reset. It is not safe for concurrent use.
type Rotator struct {
	rng  *rand.Rand
	seen map[Mode]struct{}
}

// NewRotator creates a rotator drawing from rng.
func NewRotator(rng *rand.Rand) *Rotator {
	return &Rotator{
		rng:  rng,
		seen: make(map[Mode]struct{}),
	}
}

// Pick chooses one candidate and records it as seen. It returns false when
// candidates is empty, leaving the seen set untouched.
func (rotator *Rotator) Pick(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	pool := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if !rotator.Seen(candidate.Mode) {
			pool = append(pool, candidate)
		}
	}
	if len(pool) == 0 {
		rotator.Reset()
		pool = append(pool, candidates...)
	}

	picked := pool[rotator.rng.Intn(len(pool))]
	rotator.seen[picked.Mode] = struct{}{}
	return picked, true
}

// Seen reports whether mode was picked since the last reset.
func (rotator *Rotator) Seen(mode Mode) bool {
	_, ok := rotator.seen[mode]
	return ok
}

// Reset forgets every shown mode.
func (rotator *Rotator) Reset() {
	clear(rotator.seen)
}

// Next evaluates the catalog at now and picks the state to show. With no
// eligible mode it falls back to the logo.
func (rotator *Rotator) Next(event *model.Event, now time.Time) (Candidate, bool) {
	picked, ok := rotator.Pick(SelectMax(Evaluate(event, now)))
	if !ok {
		return Candidate{Mode: Logo, Priority: Fallback, State: display.Logo(NoModesMessage)}, false
	}
	return picked, true
}

// NoModesMessage is shown when nothing is eligible.
const NoModesMessage = "no modes available"
