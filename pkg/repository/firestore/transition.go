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
)

type transitionDocument struct {
	ID              int64     `firestore:"id"`
	CaseID          int64     `firestore:"case_id"`
	FromStatus      string    `firestore:"from_status"`
	ToStatus        string    `firestore:"to_status"`
	FromDepartment  string    `firestore:"from_department"`
	ToDepartment    string    `firestore:"to_department"`
	Actor           string    `firestore:"actor"`
	Comments        string    `firestore:"comments"`
	RejectionReason string    `firestore:"rejection_reason"`
	CreatedAt       time.Time `firestore:"created_at"`
}

func (d *transitionDocument) toModel() *model.Transition {
	return &model.Transition{
		ID:              d.ID,
		CaseID:          d.CaseID,
		FromStatus:      types.CaseStatus(d.FromStatus),
		ToStatus:        types.CaseStatus(d.ToStatus),
		FromDepartment:  types.DepartmentID(d.FromDepartment),
		ToDepartment:    types.DepartmentID(d.ToDepartment),
		Actor:           d.Actor,
		Comments:        d.Comments,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
	}
}

type transitionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTransitionRepository(client *firestore.Client) *transitionRepository {
	return &transitionRepository{client: client}
}

func (r *transitionRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *transitionRepository) Create(ctx context.Context, tr *model.Transition) (*model.Transition, error) {
	id, err := nextID(ctx, r.client, r.collection("counters"), "transition_counter")
	if err != nil {
		return nil, err
	}

	doc := &transitionDocument{
		ID:              id,
		CaseID:          tr.CaseID,
		FromStatus:      tr.FromStatus.String(),
		ToStatus:        tr.ToStatus.String(),
		FromDepartment:  string(tr.FromDepartment),
		ToDepartment:    string(tr.ToDepartment),
		Actor:           tr.Actor,
		Comments:        tr.Comments,
		RejectionReason: tr.RejectionReason,
		CreatedAt:       time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection("transitions")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create transition")
	}

	return doc.toModel(), nil
}

func (r *transitionRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Transition, error) {
	iter := r.client.Collection(r.collection("transitions")).
		Where("case_id", "==", caseID).
		OrderBy("id", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var transitions []*model.Transition
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate transitions")
		}

		var d transitionDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal transition")
		}
		transitions = append(transitions, d.toModel())
	}

	return transitions, nil
}
