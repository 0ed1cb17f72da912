package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
)

type caseRepository struct {
	mu        sync.RWMutex
	cases     map[int64]*model.Case
	nextID    int64
	seqByYear map[int]int64
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases:     make(map[int64]*model.Case),
		nextID:    1,
		seqByYear: make(map[int]int64),
	}
}

func copyCase(c *model.Case) *model.Case {
	copied := *c
	if c.Metadata != nil {
		copied.Metadata = maps.Clone(c.Metadata)
	}
	if c.StartedAt != nil {
		t := *c.StartedAt
		copied.StartedAt = &t
	}
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCase(c)
	created.ID = r.nextID
	r.nextID++

	if created.CaseNumber == "" {
		year := now.Year()
		r.seqByYear[year]++
		created.CaseNumber = model.FormatCaseNumber(year, r.seqByYear[year])
	}

	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}
	return copyCase(c), nil
}

func (r *caseRepository) GetByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.cases {
		if c.CaseNumber == caseNumber {
			return copyCase(c), nil
		}
	}
	return nil, nil
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	cases := make([]*model.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if cfg.Status() != nil && c.Status.Normalize() != *cfg.Status() {
			continue
		}
		if cfg.Department() != nil && c.Department != *cfg.Department() {
			continue
		}
		cases = append(cases, copyCase(c))
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID < cases[j].ID
	})
	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.cases[c.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
	}

	updated := copyCase(c)
	updated.CaseNumber = existing.CaseNumber
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.cases[updated.ID] = updated
	return copyCase(updated), nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[id]; !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}
	delete(r.cases, id)
	return nil
}
