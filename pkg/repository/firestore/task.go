package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskDocument struct {
	ID          int64      `firestore:"id"`
	CaseID      int64      `firestore:"case_id"`
	Department  string     `firestore:"department"`
	AssigneeID  string     `firestore:"assignee_id"`
	Title       string     `firestore:"title"`
	Description string     `firestore:"description"`
	Type        string     `firestore:"type"`
	Priority    string     `firestore:"priority"`
	Status      string     `firestore:"status"`
	DependsOn   []int64    `firestore:"depends_on"`
	Result      string     `firestore:"result"`
	DueAt       *time.Time `firestore:"due_at"`
	CompletedAt *time.Time `firestore:"completed_at"`
	CreatedAt   time.Time  `firestore:"created_at"`
	UpdatedAt   time.Time  `firestore:"updated_at"`
}

func taskToDocument(t *model.Task) *taskDocument {
	return &taskDocument{
		ID:          t.ID,
		CaseID:      t.CaseID,
		Department:  t.Department.String(),
		AssigneeID:  t.AssigneeID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type.String(),
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		DependsOn:   t.DependsOn,
		Result:      t.Result,
		DueAt:       t.DueAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d *taskDocument) toModel() *model.Task {
	return &model.Task{
		ID:          d.ID,
		CaseID:      d.CaseID,
		Department:  types.DepartmentID(d.Department),
		AssigneeID:  d.AssigneeID,
		Title:       d.Title,
		Description: d.Description,
		Type:        types.TaskType(d.Type),
		Priority:    types.TaskPriority(d.Priority),
		Status:      types.TaskStatus(d.Status),
		DependsOn:   d.DependsOn,
		Result:      d.Result,
		DueAt:       d.DueAt,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{client: client}
}

func (r *taskRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	id, err := nextID(ctx, r.client, r.collection("counters"), "task_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := taskToDocument(task)
	doc.ID = id
	if doc.Status == "" {
		doc.Status = types.TaskStatusPending.String()
	}
	doc.Type = task.Type.Normalize().String()
	doc.Priority = task.Priority.Normalize().String()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection("tasks")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}

	return doc.toModel(), nil
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*model.Task, error) {
	docRef := r.client.Collection(r.collection("tasks")).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var taskDoc taskDocument
	if err := doc.DataTo(&taskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal task", goerr.V("id", id))
	}

	return taskDoc.toModel(), nil
}

func (r *taskRepository) GetMany(ctx context.Context, ids []int64) ([]*model.Task, error) {
	tasks := make([]*model.Task, 0, len(ids))
	for _, id := range ids {
		task, err := r.Get(ctx, id)
		if err != nil {
			// Skip missing tasks, propagate real failures
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) query(ctx context.Context, q firestore.Query) ([]*model.Task, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var tasks []*model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks")
		}

		var taskDoc taskDocument
		if err := doc.DataTo(&taskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal task")
		}
		tasks = append(tasks, taskDoc.toModel())
	}
	return tasks, nil
}

func (r *taskRepository) List(ctx context.Context) ([]*model.Task, error) {
	return r.query(ctx, r.client.Collection(r.collection("tasks")).Query)
}

func (r *taskRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Task, error) {
	return r.query(ctx, r.client.Collection(r.collection("tasks")).
		Where("case_id", "==", caseID))
}

func (r *taskRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Task, error) {
	return r.query(ctx, r.client.Collection(r.collection("tasks")).
		Where("assignee_id", "==", assigneeID))
}

func (r *taskRepository) ListByDepartment(ctx context.Context, department types.DepartmentID) ([]*model.Task, error) {
	return r.query(ctx, r.client.Collection(r.collection("tasks")).
		Where("department", "==", department.String()))
}

func (r *taskRepository) ListOpen(ctx context.Context) ([]*model.Task, error) {
	open := []string{
		types.TaskStatusPending.String(),
		types.TaskStatusInProgress.String(),
		types.TaskStatusBlocked.String(),
	}
	return r.query(ctx, r.client.Collection(r.collection("tasks")).
		Where("status", "in", open))
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	docRef := r.client.Collection(r.collection("tasks")).Doc(fmt.Sprintf("%d", task.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", task.ID))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", task.ID))
	}

	var existing taskDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal task", goerr.V("id", task.ID))
	}

	updated := taskToDocument(task)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V("id", task.ID))
	}

	return updated.toModel(), nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection("tasks")).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V("id", id))
	}
	return nil
}
