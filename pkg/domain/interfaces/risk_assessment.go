package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

// RiskAssessmentRepository defines the interface for RiskAssessment data access
type RiskAssessmentRepository interface {
	// Create creates a new assessment with auto-generated ID
	Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id int64) (*model.RiskAssessment, error)

	// ListByCase retrieves all assessments of a case, newest first
	ListByCase(ctx context.Context, caseID int64) ([]*model.RiskAssessment, error)

	// Latest retrieves the most recent assessment of a case.
	// Returns nil, nil when the case has never been assessed.
	Latest(ctx context.Context, caseID int64) (*model.RiskAssessment, error)

	// List retrieves all assessments
	List(ctx context.Context) ([]*model.RiskAssessment, error)
}
