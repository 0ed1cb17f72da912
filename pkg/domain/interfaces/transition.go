package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

// TransitionRepository defines the interface for the append-only workflow
// audit trail
type TransitionRepository interface {
	// Create appends a transition record with auto-generated ID
	Create(ctx context.Context, tr *model.Transition) (*model.Transition, error)

	// ListByCase retrieves the transition history of a case, newest first
	ListByCase(ctx context.Context, caseID int64) ([]*model.Transition, error)
}
