package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

type ApprovalUseCase struct {
	repo interfaces.Repository
}

func NewApprovalUseCase(repo interfaces.Repository) *ApprovalUseCase {
	return &ApprovalUseCase{repo: repo}
}

// CreateMatrix registers a new approval matrix after validation.
func (uc *ApprovalUseCase) CreateMatrix(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	created, err := uc.repo.ApprovalMatrix().Create(ctx, m)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create approval matrix")
	}
	return created, nil
}

// GetMatrix retrieves a matrix by ID.
func (uc *ApprovalUseCase) GetMatrix(ctx context.Context, id int64) (*model.ApprovalMatrix, error) {
	m, err := uc.repo.ApprovalMatrix().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrMatrixNotFound, "approval matrix not found", goerr.V(MatrixIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get approval matrix", goerr.V(MatrixIDKey, id))
	}
	return m, nil
}

// ListMatrices returns all configured matrices.
func (uc *ApprovalUseCase) ListMatrices(ctx context.Context) ([]*model.ApprovalMatrix, error) {
	matrices, err := uc.repo.ApprovalMatrix().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list approval matrices")
	}
	return matrices, nil
}

// UpdateMatrix replaces a matrix definition including its levels.
func (uc *ApprovalUseCase) UpdateMatrix(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	updated, err := uc.repo.ApprovalMatrix().Update(ctx, m)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrMatrixNotFound, "approval matrix not found", goerr.V(MatrixIDKey, m.ID))
		}
		return nil, goerr.Wrap(err, "failed to update approval matrix", goerr.V(MatrixIDKey, m.ID))
	}
	return updated, nil
}

// DeleteMatrix removes a matrix.
func (uc *ApprovalUseCase) DeleteMatrix(ctx context.Context, id int64) error {
	if err := uc.repo.ApprovalMatrix().Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrMatrixNotFound, "approval matrix not found", goerr.V(MatrixIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete approval matrix", goerr.V(MatrixIDKey, id))
	}
	return nil
}

// ResolveRequirement determines the approval requirement for an amount
// using the active matrix of the entity type. A nil requirement with nil
// error means no level applies (no active matrix, or no amount bracket
// matched).
func (uc *ApprovalUseCase) ResolveRequirement(ctx context.Context, entityType types.EntityType, amount float64) (*model.CaseApprovalRequirement, error) {
	matrix, err := uc.repo.ApprovalMatrix().GetActiveByEntityType(ctx, entityType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get active matrix", goerr.V("entity_type", entityType))
	}
	if matrix == nil {
		return nil, nil
	}

	req, err := matrix.Resolve(amount)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveForCase determines the approval requirement for a case based on
// its appraisal value.
func (uc *ApprovalUseCase) ResolveForCase(ctx context.Context, caseID int64) (*model.CaseApprovalRequirement, error) {
	c, err := uc.repo.Case().Get(ctx, caseID)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, caseID))
	}

	return uc.ResolveRequirement(ctx, types.EntityTypeExpropriation, c.AppraisalValue)
}
