package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Task represents work assigned to a department or user for processing a
// case. DependsOn lists task IDs that must complete before this task can
// start, enabling parallel processing of independent steps.
type Task struct {
	ID          int64              `json:"id"`
	CaseID      int64              `json:"caseId"`
	Department  types.DepartmentID `json:"department"`
	AssigneeID  string             `json:"assigneeId,omitempty"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        types.TaskType     `json:"type"`
	Priority    types.TaskPriority `json:"priority"`
	Status      types.TaskStatus   `json:"status"`
	DependsOn   []int64            `json:"dependsOn,omitempty"`
	Result      string             `json:"result,omitempty"`
	DueAt       *time.Time         `json:"dueAt,omitempty"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Validate checks required fields and enum values.
func (t *Task) Validate() error {
	if t.Title == "" {
		return goerr.New("task title is required")
	}
	if t.CaseID == 0 {
		return goerr.New("task must belong to a case")
	}
	if !t.Type.Normalize().IsValid() {
		return goerr.New("invalid task type", goerr.V(ValueKey, t.Type))
	}
	if !t.Priority.Normalize().IsValid() {
		return goerr.New("invalid task priority", goerr.V(ValueKey, t.Priority))
	}
	return nil
}

// IsOverdue reports whether the task passed its due date without completing.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueAt != nil && t.DueAt.Before(now) && t.Status != types.TaskStatusCompleted
}

// CanStart reports whether every dependency is completed, given a lookup of
// the dependency tasks. Missing dependencies count as blocking.
func (t *Task) CanStart(deps map[int64]*Task) bool {
	for _, id := range t.DependsOn {
		dep, ok := deps[id]
		if !ok || dep.Status != types.TaskStatusCompleted {
			return false
		}
	}
	return true
}
