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

type documentRepository struct {
	mu   sync.RWMutex
	docs map[types.DocumentID]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		docs: make(map[types.DocumentID]*model.Document),
	}
}

func copyDocument(d *model.Document) *model.Document {
	copied := *d
	if d.ExpiresAt != nil {
		exp := *d.ExpiresAt
		copied.ExpiresAt = &exp
	}
	return &copied
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return nil, goerr.New("document already exists", goerr.V("id", doc.ID))
	}

	now := time.Now().UTC()
	created := copyDocument(doc)
	if created.Status == "" {
		created.Status = types.DocumentStatusPending
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.docs[created.ID] = created
	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.docs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}
	return copyDocument(doc), nil
}

func (r *documentRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0)
	for _, doc := range r.docs {
		if doc.CaseID == caseID {
			docs = append(docs, copyDocument(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.docs[doc.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", doc.ID))
	}

	updated := copyDocument(doc)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.docs[updated.ID] = updated
	return copyDocument(updated), nil
}

func (r *documentRepository) Delete(ctx context.Context, id types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[id]; !exists {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}
	delete(r.docs, id)
	return nil
}
