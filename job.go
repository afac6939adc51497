package doc2pdf

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// JobState is a step in the life of a RenderJob.
type JobState int

// Job states. A job moves Ingested → Dispatched → Rendering, then either
// Completed or Failed → FallingBack → Completed, and finally Saved.
// Cancelled is reachable from every non-terminal state.
const (
	StateIngested JobState = iota
	StateDispatched
	StateRendering
	StateCompleted
	StateFailed
	StateFallingBack
	StateSaved
	StateCancelled
)

var stateNames = [...]string{
	StateIngested:    "ingested",
	StateDispatched:  "dispatched",
	StateRendering:   "rendering",
	StateCompleted:   "completed",
	StateFailed:      "failed",
	StateFallingBack: "fallingBack",
	StateSaved:       "saved",
	StateCancelled:   "cancelled",
}

func (s JobState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("JobState(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is allowed.
func (s JobState) Terminal() bool {
	return s == StateSaved || s == StateCancelled
}

var transitions = map[JobState][]JobState{
	StateIngested:    {StateDispatched},
	StateDispatched:  {StateRendering},
	StateRendering:   {StateCompleted, StateFailed},
	StateFailed:      {StateFallingBack},
	StateFallingBack: {StateCompleted},
	StateCompleted:   {StateSaved},
}

func canTransition(from, to JobState) bool {
	if to == StateCancelled {
		return !from.Terminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RenderJob tracks one conversion from dispatch until its PDF is saved.
// A job is owned by a single goroutine.
type RenderJob struct {
	ID       string
	Document PickedDocument
	Strategy Strategy

	// Output is the rendered or fallback PDF once the job is Completed.
	Output *PDFOutput
	// Reason is set when rendering failed and the fallback ran.
	Reason *FailureReason

	state  JobState
	cancel context.CancelFunc
}

func newRenderJob(doc PickedDocument) *RenderJob {
	return &RenderJob{
		ID:       uuid.NewString(),
		Document: doc,
		state:    StateIngested,
	}
}

// State returns the current state.
func (j *RenderJob) State() JobState {
	return j.state
}

// Advance moves the job to state to, or returns ErrInvalidTransition.
func (j *RenderJob) Advance(to JobState) error {
	if !canTransition(j.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, to)
	}
	j.state = to
	return nil
}

// mustAdvance is Advance for transitions the converter guarantees.
func (j *RenderJob) mustAdvance(to JobState) {
	if err := j.Advance(to); err != nil {
		panic(err)
	}
}

// Cancel stops the job's context and marks it Cancelled. It is a no-op on
// a terminal job.
func (j *RenderJob) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
	if !j.state.Terminal() {
		j.state = StateCancelled
	}
}
