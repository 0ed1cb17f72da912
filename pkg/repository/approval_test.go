package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

func newTestMatrix(name string) *model.ApprovalMatrix {
	return &model.ApprovalMatrix{
		Name:       name,
		EntityType: types.EntityTypeExpropriation,
		IsActive:   true,
		Levels: []*model.ApprovalLevel{
			{
				Name:              "Department Head",
				MinAmount:         0,
				MaxAmount:         100000,
				RequiredApprovers: 1,
				Sequence:          1,
				IsActive:          true,
			},
			{
				Name:              "Executive Committee",
				MinAmount:         100000,
				MaxAmount:         0,
				RequiredApprovers: 3,
				Sequence:          2,
				IsActive:          true,
			},
		},
	}
}

func runApprovalMatrixRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns matrix and level IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("Standard"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(int64(0))
		gt.Array(t, created.Levels).Length(2)
		gt.Value(t, created.Levels[0].ID).NotEqual(int64(0))
		gt.Value(t, created.Levels[1].ID).NotEqual(int64(0))
		gt.Value(t, created.Levels[0].ID).NotEqual(created.Levels[1].ID)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Create rejects invalid matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		invalid := newTestMatrix("")
		_, err := repo.ApprovalMatrix().Create(ctx, invalid)
		gt.Value(t, err).NotNil()
	})

	t.Run("Get retrieves matrix with levels", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("Standard"))
		gt.NoError(t, err).Required()

		retrieved, err := repo.ApprovalMatrix().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.Name).Equal("Standard")
		gt.Value(t, retrieved.EntityType).Equal(types.EntityTypeExpropriation)
		gt.Array(t, retrieved.Levels).Length(2)
		gt.Value(t, retrieved.Levels[0].Name).Equal("Department Head")
		gt.Value(t, retrieved.Levels[1].RequiredApprovers).Equal(3)
	})

	t.Run("Get returns error for non-existent matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.ApprovalMatrix().Get(ctx, time.Now().UnixNano())
		gt.Value(t, err).NotNil()
	})

	t.Run("GetActiveByEntityType returns active matrix or nil", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		active, err := repo.ApprovalMatrix().GetActiveByEntityType(ctx, types.EntityTypeExpropriation)
		gt.NoError(t, err)
		gt.Value(t, active).Nil()

		inactive := newTestMatrix("Retired")
		inactive.IsActive = false
		_, err = repo.ApprovalMatrix().Create(ctx, inactive)
		gt.NoError(t, err).Required()

		created, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("Current"))
		gt.NoError(t, err).Required()

		active, err = repo.ApprovalMatrix().GetActiveByEntityType(ctx, types.EntityTypeExpropriation)
		gt.NoError(t, err).Required()
		gt.Value(t, active).NotNil()
		gt.Value(t, active.ID).Equal(created.ID)
	})

	t.Run("Update replaces levels and assigns IDs to new ones", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("Standard"))
		gt.NoError(t, err).Required()

		created.Levels = append(created.Levels, &model.ApprovalLevel{
			Name:              "Board",
			MinAmount:         500000,
			MaxAmount:         0,
			RequiredApprovers: 5,
			Sequence:          3,
			IsActive:          true,
		})

		updated, err := repo.ApprovalMatrix().Update(ctx, created)
		gt.NoError(t, err).Required()

		gt.Array(t, updated.Levels).Length(3)
		gt.Value(t, updated.Levels[2].ID).NotEqual(int64(0))
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("Update returns error for non-existent matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		missing := newTestMatrix("Ghost")
		missing.ID = time.Now().UnixNano()
		_, err := repo.ApprovalMatrix().Update(ctx, missing)
		gt.Value(t, err).NotNil()
	})

	t.Run("Delete removes matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("Temporary"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.ApprovalMatrix().Delete(ctx, created.ID)).Required()

		_, err = repo.ApprovalMatrix().Get(ctx, created.ID)
		gt.Value(t, err).NotNil()
	})

	t.Run("List returns all matrices", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.ApprovalMatrix().Create(ctx, newTestMatrix("First"))
		gt.NoError(t, err).Required()

		_, err = repo.ApprovalMatrix().Create(ctx, newTestMatrix("Second"))
		gt.NoError(t, err).Required()

		all, err := repo.ApprovalMatrix().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
	})
}

func TestMemoryApprovalMatrixRepository(t *testing.T) {
	runApprovalMatrixRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreApprovalMatrixRepository(t *testing.T) {
	runApprovalMatrixRepositoryTest(t, newFirestoreRepository)
}
