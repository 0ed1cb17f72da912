package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/utils/async"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

type TaskUseCase struct {
	repo interfaces.Repository
}

func NewTaskUseCase(repo interfaces.Repository) *TaskUseCase {
	return &TaskUseCase{repo: repo}
}

// CreateTask registers a new task. Dependencies must reference existing
// tasks of the same case and must not close a cycle.
func (uc *TaskUseCase) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, goerr.Wrap(err, "task validation failed")
	}

	if _, err := uc.repo.Case().Get(ctx, task.CaseID); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, task.CaseID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, task.CaseID))
	}

	if err := uc.checkDependencies(ctx, task); err != nil {
		return nil, err
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}

	if created.AssigneeID != "" {
		uc.announceAssignment(ctx, created)
	}

	return created, nil
}

// GetTask retrieves a task by ID.
func (uc *TaskUseCase) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, id))
	}
	return task, nil
}

// ListByCase returns all tasks of a case.
func (uc *TaskUseCase) ListByCase(ctx context.Context, caseID int64) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().ListByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(CaseIDKey, caseID))
	}
	return tasks, nil
}

// ListByAssignee returns all tasks assigned to a user.
func (uc *TaskUseCase) ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().ListByAssignee(ctx, assigneeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks by assignee", goerr.V("assignee", assigneeID))
	}
	return tasks, nil
}

// AssignTask sets the assignee and notifies them.
func (uc *TaskUseCase) AssignTask(ctx context.Context, id int64, assigneeID string) (*model.Task, error) {
	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.AssigneeID = assigneeID
	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign task", goerr.V(TaskIDKey, id))
	}

	if assigneeID != "" {
		uc.announceAssignment(ctx, updated)
	}

	return updated, nil
}

// StartTask moves a task to IN_PROGRESS. Every dependency must be completed.
func (uc *TaskUseCase) StartTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	deps, err := uc.dependencyMap(ctx, task)
	if err != nil {
		return nil, err
	}
	if !task.CanStart(deps) {
		return nil, goerr.Wrap(ErrDependencyNotMet, "dependencies are not completed",
			goerr.V(TaskIDKey, id))
	}

	task.Status = types.TaskStatusInProgress
	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start task", goerr.V(TaskIDKey, id))
	}
	return updated, nil
}

// CompleteTask marks a task as completed with an optional result note.
func (uc *TaskUseCase) CompleteTask(ctx context.Context, id int64, result string) (*model.Task, error) {
	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = types.TaskStatusCompleted
	task.Result = result
	task.CompletedAt = &now

	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to complete task", goerr.V(TaskIDKey, id))
	}
	return updated, nil
}

// UpdateTask updates task fields. Dependency changes are re-checked for
// cycles against the case's task graph.
func (uc *TaskUseCase) UpdateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, goerr.Wrap(err, "task validation failed")
	}

	if _, err := uc.GetTask(ctx, task.ID); err != nil {
		return nil, err
	}

	if err := uc.checkDependencies(ctx, task); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(TaskIDKey, task.ID))
	}
	return updated, nil
}

// DeleteTask removes a task. Tasks that other tasks depend on cannot be
// deleted.
func (uc *TaskUseCase) DeleteTask(ctx context.Context, id int64) error {
	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return err
	}

	siblings, err := uc.repo.Task().ListByCase(ctx, task.CaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to list case tasks", goerr.V(CaseIDKey, task.CaseID))
	}
	for _, sibling := range siblings {
		for _, depID := range sibling.DependsOn {
			if depID == id {
				return goerr.New("task is a dependency of another task",
					goerr.V(TaskIDKey, id),
					goerr.V("dependent_task_id", sibling.ID))
			}
		}
	}

	if err := uc.repo.Task().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V(TaskIDKey, id))
	}
	return nil
}

// checkDependencies verifies that every dependency exists, belongs to the
// same case, and that the resulting graph stays acyclic.
func (uc *TaskUseCase) checkDependencies(ctx context.Context, task *model.Task) error {
	if len(task.DependsOn) == 0 {
		return nil
	}

	deps, err := uc.repo.Task().GetMany(ctx, task.DependsOn)
	if err != nil {
		return goerr.Wrap(err, "failed to load dependencies", goerr.V(TaskIDKey, task.ID))
	}
	if len(deps) != len(task.DependsOn) {
		return goerr.Wrap(ErrTaskNotFound, "dependency does not exist",
			goerr.V(TaskIDKey, task.ID),
			goerr.V("depends_on", task.DependsOn))
	}
	for _, dep := range deps {
		if dep.CaseID != task.CaseID {
			return goerr.New("dependency belongs to a different case",
				goerr.V(TaskIDKey, task.ID),
				goerr.V("dependency_id", dep.ID))
		}
	}

	siblings, err := uc.repo.Task().ListByCase(ctx, task.CaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to list case tasks", goerr.V(CaseIDKey, task.CaseID))
	}

	edges := make(map[int64][]int64, len(siblings)+1)
	for _, sibling := range siblings {
		edges[sibling.ID] = sibling.DependsOn
	}
	// Apply the incoming definition over the stored one. New tasks use ID 0,
	// which cannot be a stored dependency, so the walk below is sufficient.
	edges[task.ID] = task.DependsOn

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[int64]int, len(edges))

	var walk func(id int64) error
	walk = func(id int64) error {
		switch state[id] {
		case visiting:
			return goerr.Wrap(ErrDependencyCycle, "dependency cycle detected",
				goerr.V(TaskIDKey, id))
		case done:
			return nil
		}
		state[id] = visiting
		for _, next := range edges[id] {
			if err := walk(next); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	return walk(task.ID)
}

func (uc *TaskUseCase) dependencyMap(ctx context.Context, task *model.Task) (map[int64]*model.Task, error) {
	if len(task.DependsOn) == 0 {
		return nil, nil
	}

	deps, err := uc.repo.Task().GetMany(ctx, task.DependsOn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dependencies", goerr.V(TaskIDKey, task.ID))
	}

	byID := make(map[int64]*model.Task, len(deps))
	for _, dep := range deps {
		byID[dep.ID] = dep
	}
	return byID, nil
}

func (uc *TaskUseCase) announceAssignment(ctx context.Context, task *model.Task) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.repo.Notification().Create(ctx, &model.Notification{
			RecipientID: task.AssigneeID,
			Type:        types.NotificationTypeTaskAssigned,
			Title:       "Task assigned",
			Body:        fmt.Sprintf("%q was assigned to you", task.Title),
			CaseID:      task.CaseID,
		})
		if err != nil {
			errutil.Handle(ctx, err, "failed to create assignment notification")
		}
		return nil
	})
}
