package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type approvalLevelDocument struct {
	ID                    int64          `firestore:"id"`
	Name                  string         `firestore:"name"`
	MinAmount             float64        `firestore:"min_amount"`
	MaxAmount             float64        `firestore:"max_amount"`
	RequiredApprovers     int            `firestore:"required_approvers"`
	AutoApprove           bool           `firestore:"auto_approve"`
	AutoApproveConditions map[string]any `firestore:"auto_approve_conditions"`
	EscalationRules       map[string]any `firestore:"escalation_rules"`
	Sequence              int            `firestore:"sequence"`
	IsActive              bool           `firestore:"is_active"`
	CreatedAt             time.Time      `firestore:"created_at"`
	UpdatedAt             time.Time      `firestore:"updated_at"`
}

type matrixDocument struct {
	ID         int64                    `firestore:"id"`
	Name       string                   `firestore:"name"`
	EntityType string                   `firestore:"entity_type"`
	Levels     []*approvalLevelDocument `firestore:"levels"`
	IsActive   bool                     `firestore:"is_active"`
	CreatedAt  time.Time                `firestore:"created_at"`
	UpdatedAt  time.Time                `firestore:"updated_at"`
}

func matrixToDocument(m *model.ApprovalMatrix) *matrixDocument {
	doc := &matrixDocument{
		ID:         m.ID,
		Name:       m.Name,
		EntityType: m.EntityType.String(),
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, l := range m.Levels {
		doc.Levels = append(doc.Levels, &approvalLevelDocument{
			ID:                    l.ID,
			Name:                  l.Name,
			MinAmount:             l.MinAmount,
			MaxAmount:             l.MaxAmount,
			RequiredApprovers:     l.RequiredApprovers,
			AutoApprove:           l.AutoApprove,
			AutoApproveConditions: l.AutoApproveConditions,
			EscalationRules:       l.EscalationRules,
			Sequence:              l.Sequence,
			IsActive:              l.IsActive,
			CreatedAt:             l.CreatedAt,
			UpdatedAt:             l.UpdatedAt,
		})
	}
	return doc
}

func (d *matrixDocument) toModel() *model.ApprovalMatrix {
	m := &model.ApprovalMatrix{
		ID:         d.ID,
		Name:       d.Name,
		EntityType: types.EntityType(d.EntityType),
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, l := range d.Levels {
		m.Levels = append(m.Levels, &model.ApprovalLevel{
			ID:                    l.ID,
			Name:                  l.Name,
			MinAmount:             l.MinAmount,
			MaxAmount:             l.MaxAmount,
			RequiredApprovers:     l.RequiredApprovers,
			AutoApprove:           l.AutoApprove,
			AutoApproveConditions: l.AutoApproveConditions,
			EscalationRules:       l.EscalationRules,
			Sequence:              l.Sequence,
			IsActive:              l.IsActive,
			CreatedAt:             l.CreatedAt,
			UpdatedAt:             l.UpdatedAt,
		})
	}
	return m
}

// matrixRepository stores each matrix with its levels embedded in one
// document. Matrices are small administrator configuration, so a nested
// write keeps level replacement atomic without cross-document transactions.
type matrixRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMatrixRepository(client *firestore.Client) *matrixRepository {
	return &matrixRepository{client: client}
}

func (r *matrixRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *matrixRepository) Create(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.client, r.collection("counters"), "matrix_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *m
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	created.Levels = nil
	for _, l := range m.Levels {
		levelID, err := nextID(ctx, r.client, r.collection("counters"), "approval_level_counter")
		if err != nil {
			return nil, err
		}
		level := *l
		level.ID = levelID
		level.CreatedAt = now
		level.UpdatedAt = now
		created.Levels = append(created.Levels, &level)
	}

	docRef := r.client.Collection(r.collection("approval_matrices")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, matrixToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create approval matrix")
	}

	return &created, nil
}

func (r *matrixRepository) Get(ctx context.Context, id int64) (*model.ApprovalMatrix, error) {
	doc, err := r.client.Collection(r.collection("approval_matrices")).Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "approval matrix not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get approval matrix", goerr.V("id", id))
	}

	var d matrixDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal approval matrix", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *matrixRepository) GetActiveByEntityType(ctx context.Context, entityType types.EntityType) (*model.ApprovalMatrix, error) {
	iter := r.client.Collection(r.collection("approval_matrices")).
		Where("entity_type", "==", entityType.String()).
		Where("is_active", "==", true).
		OrderBy("id", firestore.Asc).
		Limit(1).
		Documents(ctx)
	matrices, err := r.collect(iter)
	if err != nil {
		return nil, err
	}
	if len(matrices) == 0 {
		return nil, nil
	}
	return matrices[0], nil
}

func (r *matrixRepository) List(ctx context.Context) ([]*model.ApprovalMatrix, error) {
	iter := r.client.Collection(r.collection("approval_matrices")).
		OrderBy("id", firestore.Asc).
		Documents(ctx)
	return r.collect(iter)
}

func (r *matrixRepository) Update(ctx context.Context, m *model.ApprovalMatrix) (*model.ApprovalMatrix, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := *m
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now

	updated.Levels = nil
	for _, l := range m.Levels {
		level := *l
		if level.ID == 0 {
			levelID, err := nextID(ctx, r.client, r.collection("counters"), "approval_level_counter")
			if err != nil {
				return nil, err
			}
			level.ID = levelID
			level.CreatedAt = now
		}
		level.UpdatedAt = now
		updated.Levels = append(updated.Levels, &level)
	}

	docRef := r.client.Collection(r.collection("approval_matrices")).Doc(fmt.Sprintf("%d", m.ID))
	if _, err := docRef.Set(ctx, matrixToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update approval matrix", goerr.V("id", m.ID))
	}

	return &updated, nil
}

func (r *matrixRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection("approval_matrices")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "approval matrix not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get approval matrix", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete approval matrix", goerr.V("id", id))
	}
	return nil
}

func (r *matrixRepository) collect(iter *firestore.DocumentIterator) ([]*model.ApprovalMatrix, error) {
	defer iter.Stop()

	var matrices []*model.ApprovalMatrix
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate approval matrices")
		}

		var d matrixDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal approval matrix")
		}
		matrices = append(matrices, d.toModel())
	}

	return matrices, nil
}
