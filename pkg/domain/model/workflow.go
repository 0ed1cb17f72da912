package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Workflow is the configured transition table for case statuses. The
// historical system mutated free-form status strings via ad hoc API calls;
// here every allowed move is declared up front and anything else is
// rejected.
type Workflow struct {
	transitions map[types.CaseStatus][]types.CaseStatus
}

// ErrTransitionNotAllowed marks an attempted move that the transition table
// does not declare.
var ErrTransitionNotAllowed = goerr.New("transition not allowed")

// DefaultWorkflow returns the transition table matching the standard
// expropriation process.
func DefaultWorkflow() *Workflow {
	return NewWorkflow(map[types.CaseStatus][]types.CaseStatus{
		types.CaseStatusInitiated: {types.CaseStatusInReview},
		types.CaseStatusInReview:  {types.CaseStatusApproved, types.CaseStatusRejected},
		types.CaseStatusApproved:  {types.CaseStatusCompleted, types.CaseStatusAppealed},
		types.CaseStatusRejected:  {types.CaseStatusAppealed},
		types.CaseStatusAppealed:  {types.CaseStatusInReview},
	})
}

// NewWorkflow builds a workflow from an explicit transition table. The table
// is copied; later mutation of the argument does not affect the workflow.
func NewWorkflow(transitions map[types.CaseStatus][]types.CaseStatus) *Workflow {
	copied := make(map[types.CaseStatus][]types.CaseStatus, len(transitions))
	for from, tos := range transitions {
		copied[from] = append([]types.CaseStatus(nil), tos...)
	}
	return &Workflow{transitions: copied}
}

// Validate checks that every status in the table is a known CaseStatus and
// that no terminal-to-anything moves conflict with status semantics.
func (w *Workflow) Validate() error {
	for from, tos := range w.transitions {
		if !from.IsValid() {
			return goerr.New("unknown status in transition table", goerr.V("status", from))
		}
		for _, to := range tos {
			if !to.IsValid() {
				return goerr.New("unknown target status in transition table",
					goerr.V("from", from), goerr.V("to", to))
			}
			if to == from {
				return goerr.New("self transition is not allowed", goerr.V("status", from))
			}
		}
	}
	return nil
}

// CanTransition reports whether the table declares the move.
func (w *Workflow) CanTransition(from, to types.CaseStatus) bool {
	for _, allowed := range w.transitions[from.Normalize()] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AvailableTransitions returns the statuses reachable from the given one.
func (w *Workflow) AvailableTransitions(from types.CaseStatus) []types.CaseStatus {
	return append([]types.CaseStatus(nil), w.transitions[from.Normalize()]...)
}

// CheckTransition returns ErrTransitionNotAllowed when the move is not
// declared in the table.
func (w *Workflow) CheckTransition(from, to types.CaseStatus) error {
	if !to.IsValid() {
		return goerr.Wrap(ErrTransitionNotAllowed, "unknown target status", goerr.V("to", to))
	}
	if !w.CanTransition(from, to) {
		return goerr.Wrap(ErrTransitionNotAllowed, "transition not declared in workflow",
			goerr.V("from", from.Normalize()),
			goerr.V("to", to))
	}
	return nil
}
