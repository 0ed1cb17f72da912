package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/repository/memory"
	"github.com/mopc-lab/expropia/pkg/usecase"
)

func setupCase(t *testing.T, uc *usecase.UseCases) *model.Case {
	t.Helper()
	created, err := uc.Case.CreateCase(context.Background(), newCaseInput())
	gt.NoError(t, err).Required()
	return created
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and case binding", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := setupCase(t, uc)

		created, err := uc.Task.CreateTask(ctx, &model.Task{
			CaseID: c.ID,
			Title:  "Site survey",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Status).Equal(types.TaskStatusPending)
		gt.Value(t, created.Type).Equal(types.TaskTypeReview)
		gt.Value(t, created.Priority).Equal(types.TaskPriorityMedium)
	})

	t.Run("unknown case is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: 999, Title: "Site survey"})
		gt.Error(t, err).Is(usecase.ErrCaseNotFound)
	})

	t.Run("missing dependency is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := setupCase(t, uc)

		_, err := uc.Task.CreateTask(ctx, &model.Task{
			CaseID:    c.ID,
			Title:     "Appraisal report",
			DependsOn: []int64{404},
		})
		gt.Error(t, err).Is(usecase.ErrTaskNotFound)
	})

	t.Run("dependency from another case is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c1 := setupCase(t, uc)
		c2 := setupCase(t, uc)

		other, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c1.ID, Title: "Survey"})
		gt.NoError(t, err).Required()

		_, err = uc.Task.CreateTask(ctx, &model.Task{
			CaseID:    c2.ID,
			Title:     "Appraisal",
			DependsOn: []int64{other.ID},
		})
		gt.Value(t, err).NotNil()
	})
}

func TestTaskDependencyCycle(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	c := setupCase(t, uc)

	survey, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c.ID, Title: "Survey"})
	gt.NoError(t, err).Required()

	appraisal, err := uc.Task.CreateTask(ctx, &model.Task{
		CaseID: c.ID, Title: "Appraisal", DependsOn: []int64{survey.ID},
	})
	gt.NoError(t, err).Required()

	review, err := uc.Task.CreateTask(ctx, &model.Task{
		CaseID: c.ID, Title: "Legal review", DependsOn: []int64{appraisal.ID},
	})
	gt.NoError(t, err).Required()

	// Closing the chain back onto survey would make survey -> appraisal ->
	// review -> survey.
	survey.DependsOn = []int64{review.ID}
	_, err = uc.Task.UpdateTask(ctx, survey)
	gt.Error(t, err).Is(usecase.ErrDependencyCycle)

	// A self dependency is the degenerate cycle.
	appraisal.DependsOn = []int64{survey.ID, appraisal.ID}
	_, err = uc.Task.UpdateTask(ctx, appraisal)
	gt.Error(t, err).Is(usecase.ErrDependencyCycle)
}

func TestStartTask(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked until dependencies complete", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := setupCase(t, uc)

		survey, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c.ID, Title: "Survey"})
		gt.NoError(t, err).Required()

		appraisal, err := uc.Task.CreateTask(ctx, &model.Task{
			CaseID: c.ID, Title: "Appraisal", DependsOn: []int64{survey.ID},
		})
		gt.NoError(t, err).Required()

		_, err = uc.Task.StartTask(ctx, appraisal.ID)
		gt.Error(t, err).Is(usecase.ErrDependencyNotMet)

		_, err = uc.Task.CompleteTask(ctx, survey.ID, "boundary markers placed")
		gt.NoError(t, err).Required()

		started, err := uc.Task.StartTask(ctx, appraisal.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, started.Status).Equal(types.TaskStatusInProgress)
	})

	t.Run("task without dependencies starts immediately", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := setupCase(t, uc)

		task, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c.ID, Title: "Survey"})
		gt.NoError(t, err).Required()

		started, err := uc.Task.StartTask(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, started.Status).Equal(types.TaskStatusInProgress)
	})
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	c := setupCase(t, uc)

	task, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c.ID, Title: "Survey"})
	gt.NoError(t, err).Required()

	completed, err := uc.Task.CompleteTask(ctx, task.ID, "no encumbrances found")
	gt.NoError(t, err).Required()
	gt.Value(t, completed.Status).Equal(types.TaskStatusCompleted)
	gt.Value(t, completed.Result).Equal("no encumbrances found")
	gt.Value(t, completed.CompletedAt).NotNil()
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	c := setupCase(t, uc)

	survey, err := uc.Task.CreateTask(ctx, &model.Task{CaseID: c.ID, Title: "Survey"})
	gt.NoError(t, err).Required()

	appraisal, err := uc.Task.CreateTask(ctx, &model.Task{
		CaseID: c.ID, Title: "Appraisal", DependsOn: []int64{survey.ID},
	})
	gt.NoError(t, err).Required()

	// survey is a dependency of appraisal and cannot go away.
	err = uc.Task.DeleteTask(ctx, survey.ID)
	gt.Value(t, err).NotNil()

	gt.NoError(t, uc.Task.DeleteTask(ctx, appraisal.ID)).Required()
	gt.NoError(t, uc.Task.DeleteTask(ctx, survey.ID)).Required()

	remaining, err := uc.Task.ListByCase(ctx, c.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, remaining).Length(0)
}
