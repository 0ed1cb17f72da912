package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// Create creates a new task with auto-generated ID
	Create(ctx context.Context, task *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id int64) (*model.Task, error)

	// GetMany retrieves tasks by IDs. Missing IDs are silently skipped.
	GetMany(ctx context.Context, ids []int64) ([]*model.Task, error)

	// List retrieves all tasks
	List(ctx context.Context) ([]*model.Task, error)

	// ListByCase retrieves all tasks belonging to a case
	ListByCase(ctx context.Context, caseID int64) ([]*model.Task, error)

	// ListByAssignee retrieves all tasks assigned to a user
	ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Task, error)

	// ListByDepartment retrieves all tasks owned by a department
	ListByDepartment(ctx context.Context, department types.DepartmentID) ([]*model.Task, error)

	// ListOpen retrieves all tasks whose status still blocks dependents
	ListOpen(ctx context.Context) ([]*model.Task, error)

	// Update updates an existing task
	Update(ctx context.Context, task *model.Task) (*model.Task, error)

	// Delete deletes a task by ID
	Delete(ctx context.Context, id int64) error
}
