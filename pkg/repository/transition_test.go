package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

func runTransitionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create appends audit record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Transition().Create(ctx, &model.Transition{
			CaseID:         1,
			FromStatus:     types.CaseStatusInitiated,
			ToStatus:       types.CaseStatusInReview,
			FromDepartment: "legal",
			ToDepartment:   "appraisal",
			Actor:          "analyst-1",
			Comments:       "all intake documents present",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(int64(0))
		gt.Value(t, created.FromStatus).Equal(types.CaseStatusInitiated)
		gt.Value(t, created.ToStatus).Equal(types.CaseStatusInReview)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("ListByCase returns history newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Transition().Create(ctx, &model.Transition{
			CaseID:     5,
			FromStatus: types.CaseStatusInitiated,
			ToStatus:   types.CaseStatusInReview,
			Actor:      "analyst-1",
		})
		gt.NoError(t, err).Required()

		second, err := repo.Transition().Create(ctx, &model.Transition{
			CaseID:          5,
			FromStatus:      types.CaseStatusInReview,
			ToStatus:        types.CaseStatusRejected,
			Actor:           "supervisor-1",
			RejectionReason: "appraisal value unsupported",
		})
		gt.NoError(t, err).Required()

		_, err = repo.Transition().Create(ctx, &model.Transition{
			CaseID:     6,
			FromStatus: types.CaseStatusInitiated,
			ToStatus:   types.CaseStatusInReview,
			Actor:      "analyst-2",
		})
		gt.NoError(t, err).Required()

		history, err := repo.Transition().ListByCase(ctx, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(2)
		gt.Value(t, history[0].ID).Equal(second.ID)
		gt.Value(t, history[0].RejectionReason).Equal("appraisal value unsupported")
		gt.Value(t, history[1].ID).Equal(first.ID)
	})

	t.Run("ListByCase returns empty history for unknown case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		history, err := repo.Transition().ListByCase(ctx, 999)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(0)
	})
}

func TestMemoryTransitionRepository(t *testing.T) {
	runTransitionRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreTransitionRepository(t *testing.T) {
	runTransitionRepositoryTest(t, newFirestoreRepository)
}
