package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/mopc-lab/expropia/pkg/utils/async"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

type CaseUseCase struct {
	repo     interfaces.Repository
	workflow *model.Workflow
	slackSvc slack.Service
}

func NewCaseUseCase(repo interfaces.Repository, workflow *model.Workflow, slackSvc slack.Service) *CaseUseCase {
	return &CaseUseCase{
		repo:     repo,
		workflow: workflow,
		slackSvc: slackSvc,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, interfaces.ErrNotFound)
}

// CreateCase validates the intake data and registers a new case.
func (uc *CaseUseCase) CreateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "case validation failed")
	}

	c.Status = types.CaseStatusInitiated
	c.CreatedBy = auth.UserIDFromContext(ctx)

	created, err := uc.repo.Case().Create(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}

	return created, nil
}

// GetCase retrieves a case by ID.
func (uc *CaseUseCase) GetCase(ctx context.Context, id int64) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

// GetCaseByNumber retrieves a case by its case number.
func (uc *CaseUseCase) GetCaseByNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	c, err := uc.repo.Case().GetByCaseNumber(ctx, caseNumber)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case by number", goerr.V("case_number", caseNumber))
	}
	if c == nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V("case_number", caseNumber))
	}
	return c, nil
}

// ListCases retrieves cases with optional status and department filters.
func (uc *CaseUseCase) ListCases(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

// UpdateCase updates mutable case fields. Status changes must go through
// Transition; a differing status here is rejected.
func (uc *CaseUseCase) UpdateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	existing, err := uc.GetCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if c.Status != "" && c.Status.Normalize() != existing.Status.Normalize() {
		return nil, goerr.Wrap(model.ErrTransitionNotAllowed,
			"case status must be changed via a workflow transition",
			goerr.V(CaseIDKey, c.ID))
	}

	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "case validation failed")
	}

	c.Status = existing.Status
	updated, err := uc.repo.Case().Update(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, c.ID))
	}
	return updated, nil
}

// DeleteCase removes a case.
func (uc *CaseUseCase) DeleteCase(ctx context.Context, id int64) error {
	if err := uc.repo.Case().Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete case", goerr.V(CaseIDKey, id))
	}
	return nil
}

// TransitionInput carries the parameters of a workflow transition.
type TransitionInput struct {
	CaseID          int64
	To              types.CaseStatus
	ToDepartment    types.DepartmentID
	Comments        string
	RejectionReason string
}

// Transition moves a case to a new status. The move must be declared in the
// workflow table; an audit record is appended and interested users are
// notified asynchronously.
func (uc *CaseUseCase) Transition(ctx context.Context, input TransitionInput) (*model.Case, error) {
	c, err := uc.GetCase(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}

	from := c.Status.Normalize()
	if err := uc.workflow.CheckTransition(from, input.To); err != nil {
		return nil, err
	}

	if input.To == types.CaseStatusRejected && input.RejectionReason == "" {
		return nil, goerr.New("rejection reason is required", goerr.V(CaseIDKey, c.ID))
	}

	now := time.Now().UTC()
	fromDepartment := c.Department

	c.Status = input.To
	if input.ToDepartment != "" {
		c.Department = input.ToDepartment
	}
	switch input.To {
	case types.CaseStatusInReview:
		if c.StartedAt == nil {
			c.StartedAt = &now
		}
	case types.CaseStatusCompleted:
		c.CompletedAt = &now
	}

	updated, err := uc.repo.Case().Update(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case status", goerr.V(CaseIDKey, c.ID))
	}

	tr, err := uc.repo.Transition().Create(ctx, &model.Transition{
		CaseID:          c.ID,
		FromStatus:      from,
		ToStatus:        input.To,
		FromDepartment:  fromDepartment,
		ToDepartment:    updated.Department,
		Actor:           auth.UserIDFromContext(ctx),
		Comments:        input.Comments,
		RejectionReason: input.RejectionReason,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record transition", goerr.V(CaseIDKey, c.ID))
	}

	uc.announceTransition(ctx, updated, tr)

	return updated, nil
}

// History returns the transition audit trail of a case, newest first.
func (uc *CaseUseCase) History(ctx context.Context, caseID int64) ([]*model.Transition, error) {
	if _, err := uc.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	history, err := uc.repo.Transition().ListByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list transitions", goerr.V(CaseIDKey, caseID))
	}
	return history, nil
}

// AvailableTransitions returns the statuses the case can move to.
func (uc *CaseUseCase) AvailableTransitions(ctx context.Context, caseID int64) ([]types.CaseStatus, error) {
	c, err := uc.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return uc.workflow.AvailableTransitions(c.Status), nil
}

func (uc *CaseUseCase) announceTransition(ctx context.Context, c *model.Case, tr *model.Transition) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if c.CreatedBy != "" && c.CreatedBy != tr.Actor {
			_, err := uc.repo.Notification().Create(ctx, &model.Notification{
				RecipientID: c.CreatedBy,
				Type:        types.NotificationTypeTransition,
				Title:       fmt.Sprintf("Case %s moved to %s", c.CaseNumber, tr.ToStatus),
				Body:        tr.Comments,
				CaseID:      c.ID,
			})
			if err != nil {
				errutil.Handle(ctx, err, "failed to create transition notification")
			}
		}

		if uc.slackSvc != nil {
			if err := uc.slackSvc.NotifyCaseTransition(ctx, c, tr); err != nil {
				errutil.Handle(ctx, err, "failed to announce transition to Slack")
			}
		}
		return nil
	})
}
