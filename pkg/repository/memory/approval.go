package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

type matrixRepository struct {
	mu          sync.RWMutex
	matrices    map[int64]*model.ApprovalMatrix
	nextID      int64
	nextLevelID int64
}

func newMatrixRepository() *matrixRepository {
	return &matrixRepository{
		matrices:    make(map[int64]*model.ApprovalMatrix),
		nextID:      1,
		nextLevelID: 1,
	}
}

func copyLevel(l *model.ApprovalLevel) *model.ApprovalLevel {
	copied := *l
	return &copied
}

func copyMatrix(m *model.ApprovalMatrix) *model.ApprovalMatrix {
	copied := *m
	copied.Levels = make([]*model.ApprovalLevel, 0, len(m.Levels))
	for _, l := range m.Levels {
		copied.Levels = append(copied.Levels, copyLevel(l))
	}
	return &copied
}

func (r *matrixRepository) Create(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid approval matrix")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyMatrix(m)
	created.ID = r.nextID
	r.nextID++
	created.CreatedAt = now
	created.UpdatedAt = now

	for _, level := range created.Levels {
		level.ID = r.nextLevelID
		r.nextLevelID++
		level.CreatedAt = now
		level.UpdatedAt = now
	}

	r.matrices[created.ID] = created
	return copyMatrix(created), nil
}

func (r *matrixRepository) Get(ctx context.Context, id int64) (*model.ApprovalMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.matrices[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "approval matrix not found", goerr.V("id", id))
	}
	return copyMatrix(m), nil
}

func (r *matrixRepository) GetActiveByEntityType(ctx context.Context, entityType types.EntityType) (*model.ApprovalMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *model.ApprovalMatrix
	for _, m := range r.matrices {
		if !m.IsActive || m.EntityType != entityType {
			continue
		}
		// Deterministic pick when several matrices are active: lowest ID wins
		if best == nil || m.ID < best.ID {
			best = m
		}
	}
	if best == nil {
		return nil, nil
	}
	return copyMatrix(best), nil
}

func (r *matrixRepository) List(ctx context.Context) ([]*model.ApprovalMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matrices := make([]*model.ApprovalMatrix, 0, len(r.matrices))
	for _, m := range r.matrices {
		matrices = append(matrices, copyMatrix(m))
	}
	sort.Slice(matrices, func(i, j int) bool {
		return matrices[i].ID < matrices[j].ID
	})
	return matrices, nil
}

func (r *matrixRepository) Update(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid approval matrix")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.matrices[m.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "approval matrix not found", goerr.V("id", m.ID))
	}

	now := time.Now().UTC()
	updated := copyMatrix(m)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now

	for _, level := range updated.Levels {
		if level.ID == 0 {
			level.ID = r.nextLevelID
			r.nextLevelID++
			level.CreatedAt = now
		}
		level.UpdatedAt = now
	}

	r.matrices[updated.ID] = updated
	return copyMatrix(updated), nil
}

func (r *matrixRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matrices[id]; !exists {
		return goerr.Wrap(ErrNotFound, "approval matrix not found", goerr.V("id", id))
	}
	delete(r.matrices, id)
	return nil
}
