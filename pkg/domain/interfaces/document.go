package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// DocumentRepository defines the interface for Document metadata access.
// File bytes live in the storage service, not here.
type DocumentRepository interface {
	// Create stores a new document record
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, id types.DocumentID) (*model.Document, error)

	// ListByCase retrieves all documents belonging to a case
	ListByCase(ctx context.Context, caseID int64) ([]*model.Document, error)

	// Update updates an existing document record
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete deletes a document record by ID
	Delete(ctx context.Context, id types.DocumentID) error
}
