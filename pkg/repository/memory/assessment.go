package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.RiskAssessment
	nextID      int64
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[int64]*model.RiskAssessment),
		nextID:      1,
	}
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *a
	created.ID = r.nextID
	r.nextID++
	created.CreatedAt = time.Now().UTC()

	r.assessments[created.ID] = &created

	result := created
	return &result, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("id", id))
	}
	copied := *a
	return &copied, nil
}

func (r *assessmentRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.RiskAssessment, 0)
	for _, a := range r.assessments {
		if a.CaseID == caseID {
			copied := *a
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *assessmentRepository) Latest(ctx context.Context, caseID int64) (*model.RiskAssessment, error) {
	assessments, err := r.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, nil
	}
	return assessments[0], nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.RiskAssessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		copied := *a
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}
