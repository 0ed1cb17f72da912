package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
)

type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{repo: repo}
}

// Assess computes the risk score for the given factors and records the
// assessment against the case. Factors out of the 1..5 range are rejected
// with model.ErrInvalidInput.
func (uc *RiskUseCase) Assess(ctx context.Context, caseID int64, factors model.RiskFactors, notes string) (*model.RiskAssessment, error) {
	if _, err := uc.repo.Case().Get(ctx, caseID); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, caseID))
	}

	assessment, err := model.NewRiskAssessment(caseID, factors, auth.UserIDFromContext(ctx), notes)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.RiskAssessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store risk assessment", goerr.V(CaseIDKey, caseID))
	}
	return created, nil
}

// Evaluate computes score and level without persisting anything.
func (uc *RiskUseCase) Evaluate(ctx context.Context, factors model.RiskFactors) (float64, string, error) {
	score, level, err := model.ComputeRisk(factors)
	if err != nil {
		return 0, "", err
	}
	return score, level.String(), nil
}

// Latest returns the most recent assessment of a case, or ErrAssessmentNotFound.
func (uc *RiskUseCase) Latest(ctx context.Context, caseID int64) (*model.RiskAssessment, error) {
	latest, err := uc.repo.RiskAssessment().Latest(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V(CaseIDKey, caseID))
	}
	if latest == nil {
		return nil, goerr.Wrap(ErrAssessmentNotFound, "case has no assessments", goerr.V(CaseIDKey, caseID))
	}
	return latest, nil
}

// ListByCase returns the assessment history of a case, newest first.
func (uc *RiskUseCase) ListByCase(ctx context.Context, caseID int64) ([]*model.RiskAssessment, error) {
	assessments, err := uc.repo.RiskAssessment().ListByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(CaseIDKey, caseID))
	}
	return assessments, nil
}
