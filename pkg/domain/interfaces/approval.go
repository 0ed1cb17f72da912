package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// ApprovalMatrixRepository defines the interface for ApprovalMatrix data
// access. Matrices are administrator configuration; the evaluator itself
// only reads snapshots handed to it by the use case layer.
type ApprovalMatrixRepository interface {
	// Create creates a new matrix (with its levels) with auto-generated ID
	Create(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error)

	// Get retrieves a matrix by ID
	Get(ctx context.Context, id int64) (*model.ApprovalMatrix, error)

	// GetActiveByEntityType retrieves the active matrix for an entity type.
	// Returns nil, nil when no active matrix is configured.
	GetActiveByEntityType(ctx context.Context, entityType types.EntityType) (*model.ApprovalMatrix, error)

	// List retrieves all matrices
	List(ctx context.Context) ([]*model.ApprovalMatrix, error)

	// Update updates an existing matrix and replaces its levels
	Update(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error)

	// Delete deletes a matrix by ID
	Delete(ctx context.Context, id int64) error
}
