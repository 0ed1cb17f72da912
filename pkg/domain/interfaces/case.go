package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access
type CaseRepository interface {
	// Create creates a new case with auto-generated ID and case number
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id int64) (*model.Case, error)

	// GetByCaseNumber retrieves a case by its unique case number.
	// Returns nil, nil if no case has the given number.
	GetByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error)

	// List retrieves cases with optional filtering
	List(ctx context.Context, opts ...ListCaseOption) ([]*model.Case, error)

	// Update updates an existing case
	Update(ctx context.Context, c *model.Case) (*model.Case, error)

	// Delete deletes a case by ID
	Delete(ctx context.Context, id int64) error
}
