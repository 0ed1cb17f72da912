package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

type transitionRepository struct {
	mu          sync.RWMutex
	transitions map[int64]*model.Transition
	nextID      int64
}

func newTransitionRepository() *transitionRepository {
	return &transitionRepository{
		transitions: make(map[int64]*model.Transition),
		nextID:      1,
	}
}

func (r *transitionRepository) Create(ctx context.Context, tr *model.Transition) (*model.Transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *tr
	created.ID = r.nextID
	r.nextID++
	created.CreatedAt = time.Now().UTC()

	r.transitions[created.ID] = &created

	result := created
	return &result, nil
}

func (r *transitionRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Transition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Transition, 0)
	for _, tr := range r.transitions {
		if tr.CaseID == caseID {
			copied := *tr
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}
