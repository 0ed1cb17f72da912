package repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

func runCaseRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and case number", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		case1 := &model.Case{
			OwnerName:       "Juan Morales",
			OwnerNationalID: "MORJ800101",
			Address:         "Av. Hidalgo 123",
			Municipality:    "Guadalajara",
			Province:        "Jalisco",
			LandArea:        450.5,
			AppraisalValue:  75000,
			Department:      "legal",
			CreatedBy:       "analyst-1",
		}

		created1, err := repo.Case().Create(ctx, case1)
		gt.NoError(t, err).Required()

		gt.Value(t, created1.ID).NotEqual(int64(0))
		gt.Value(t, created1.OwnerName).Equal(case1.OwnerName)
		gt.Value(t, created1.Status).Equal(types.CaseStatusInitiated)
		gt.Bool(t, strings.HasPrefix(created1.CaseNumber, "EXP-")).True()
		gt.Bool(t, created1.CreatedAt.IsZero()).False()
		gt.Bool(t, created1.UpdatedAt.IsZero()).False()

		created2, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Lucia Fernandez",
			OwnerNationalID: "FERL750320",
			Address:         "Calle Morelos 44",
			Municipality:    "Zapopan",
			Province:        "Jalisco",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created2.ID).NotEqual(created1.ID)
		gt.Value(t, created2.CaseNumber).NotEqual(created1.CaseNumber)
	})

	t.Run("Get retrieves existing case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Pedro Ramirez",
			OwnerNationalID: "RAMP650712",
			Address:         "Carretera Federal 15 km 8",
			Municipality:    "Tepic",
			Province:        "Nayarit",
			LandArea:        1200,
			AppraisalValue:  240000,
			Metadata:        map[string]any{"parcel": "P-338"},
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Case().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.CaseNumber).Equal(created.CaseNumber)
		gt.Value(t, retrieved.OwnerName).Equal(created.OwnerName)
		gt.Value(t, retrieved.AppraisalValue).Equal(created.AppraisalValue)
		gt.Value(t, retrieved.Metadata["parcel"]).Equal("P-338")
	})

	t.Run("Get returns error for non-existent case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Case().Get(ctx, time.Now().UnixNano())
		gt.Value(t, err).NotNil()
	})

	t.Run("GetByCaseNumber finds case or returns nil", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Rosa Delgado",
			OwnerNationalID: "DELR820518",
			Address:         "Av. Juarez 9",
			Municipality:    "Leon",
			Province:        "Guanajuato",
		})
		gt.NoError(t, err).Required()

		found, err := repo.Case().GetByCaseNumber(ctx, created.CaseNumber)
		gt.NoError(t, err).Required()
		gt.Value(t, found).NotNil()
		gt.Value(t, found.ID).Equal(created.ID)

		missing, err := repo.Case().GetByCaseNumber(ctx, "EXP-1990-999999")
		gt.NoError(t, err)
		gt.Value(t, missing).Nil()
	})

	t.Run("List filters by status and department", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Owner A",
			OwnerNationalID: "AAAA000001",
			Address:         "Street A",
			Municipality:    "Colima",
			Province:        "Colima",
			Department:      "legal",
		})
		gt.NoError(t, err).Required()

		inReview, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Owner B",
			OwnerNationalID: "BBBB000002",
			Address:         "Street B",
			Municipality:    "Colima",
			Province:        "Colima",
			Department:      "appraisal",
		})
		gt.NoError(t, err).Required()

		inReview.Status = types.CaseStatusInReview
		_, err = repo.Case().Update(ctx, inReview)
		gt.NoError(t, err).Required()

		all, err := repo.Case().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)

		reviewing, err := repo.Case().List(ctx, interfaces.WithStatus(types.CaseStatusInReview))
		gt.NoError(t, err).Required()
		gt.Array(t, reviewing).Length(1)
		gt.Value(t, reviewing[0].ID).Equal(inReview.ID)

		legal, err := repo.Case().List(ctx, interfaces.WithDepartment("legal"))
		gt.NoError(t, err).Required()
		gt.Array(t, legal).Length(1)
		gt.Value(t, legal[0].Department).Equal(types.DepartmentID("legal"))

		none, err := repo.Case().List(ctx,
			interfaces.WithStatus(types.CaseStatusCompleted),
			interfaces.WithDepartment("legal"))
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("Update preserves case number and creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Original Owner",
			OwnerNationalID: "ORIG000001",
			Address:         "Original Address",
			Municipality:    "Merida",
			Province:        "Yucatan",
			AppraisalValue:  50000,
		})
		gt.NoError(t, err).Required()

		created.AppraisalValue = 62000
		created.Status = types.CaseStatusInReview
		created.CaseNumber = "should-be-ignored"

		updated, err := repo.Case().Update(ctx, created)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.ID).Equal(created.ID)
		gt.Value(t, updated.AppraisalValue).Equal(62000.0)
		gt.Value(t, updated.Status).Equal(types.CaseStatusInReview)
		gt.Value(t, updated.CaseNumber).NotEqual("should-be-ignored")
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("Update returns error for non-existent case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Case().Update(ctx, &model.Case{
			ID:              time.Now().UnixNano(),
			OwnerName:       "Ghost",
			OwnerNationalID: "GHST000001",
			Address:         "Nowhere",
			Municipality:    "Nowhere",
			Province:        "Nowhere",
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("Delete removes case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "To Be Deleted",
			OwnerNationalID: "DELT000001",
			Address:         "Temp Address",
			Municipality:    "Puebla",
			Province:        "Puebla",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Case().Delete(ctx, created.ID)).Required()

		_, err = repo.Case().Get(ctx, created.ID)
		gt.Value(t, err).NotNil()
	})
}

func TestMemoryCaseRepository(t *testing.T) {
	runCaseRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreCaseRepository(t *testing.T) {
	runCaseRepositoryTest(t, newFirestoreRepository)
}
