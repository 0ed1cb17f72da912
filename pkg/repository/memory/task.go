package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

type taskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]*model.Task
	nextID int64
}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks:  make(map[int64]*model.Task),
		nextID: 1,
	}
}

func copyTask(t *model.Task) *model.Task {
	copied := *t
	copied.DependsOn = append([]int64(nil), t.DependsOn...)
	if t.DueAt != nil {
		due := *t.DueAt
		copied.DueAt = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		copied.CompletedAt = &done
	}
	return &copied
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyTask(task)
	created.ID = r.nextID
	r.nextID++

	if created.Status == "" {
		created.Status = types.TaskStatusPending
	}
	created.Type = created.Type.Normalize()
	created.Priority = created.Priority.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.tasks[created.ID] = created
	return copyTask(created), nil
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	return copyTask(task), nil
}

func (r *taskRepository) GetMany(ctx context.Context, ids []int64) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(ids))
	for _, id := range ids {
		if task, exists := r.tasks[id]; exists {
			tasks = append(tasks, copyTask(task))
		}
	}
	return tasks, nil
}

func (r *taskRepository) list(filter func(*model.Task) bool) []*model.Task {
	tasks := make([]*model.Task, 0)
	for _, task := range r.tasks {
		if filter(task) {
			tasks = append(tasks, copyTask(task))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

func (r *taskRepository) List(ctx context.Context) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(func(*model.Task) bool { return true }), nil
}

func (r *taskRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(func(t *model.Task) bool { return t.CaseID == caseID }), nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(func(t *model.Task) bool { return t.AssigneeID == assigneeID }), nil
}

func (r *taskRepository) ListByDepartment(ctx context.Context, department types.DepartmentID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(func(t *model.Task) bool { return t.Department == department }), nil
}

func (r *taskRepository) ListOpen(ctx context.Context) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(func(t *model.Task) bool { return t.Status.IsOpen() }), nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.tasks[task.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", task.ID))
	}

	updated := copyTask(task)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.tasks[updated.ID] = updated
	return copyTask(updated), nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	delete(r.tasks, id)
	return nil
}
