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

type assessmentDocument struct {
	ID         int64     `firestore:"id"`
	CaseID     int64     `firestore:"case_id"`
	Likelihood int       `firestore:"likelihood"`
	Impact     int       `firestore:"impact"`
	Urgency    int       `firestore:"urgency"`
	Score      float64   `firestore:"score"`
	Level      string    `firestore:"level"`
	AssessedBy string    `firestore:"assessed_by"`
	Notes      string    `firestore:"notes"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func assessmentToDocument(a *model.RiskAssessment) *assessmentDocument {
	return &assessmentDocument{
		ID:         a.ID,
		CaseID:     a.CaseID,
		Likelihood: a.Factors.Likelihood,
		Impact:     a.Factors.Impact,
		Urgency:    a.Factors.Urgency,
		Score:      a.Score,
		Level:      a.Level.String(),
		AssessedBy: a.AssessedBy,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
	}
}

func (d *assessmentDocument) toModel() *model.RiskAssessment {
	return &model.RiskAssessment{
		ID:     d.ID,
		CaseID: d.CaseID,
		Factors: model.RiskFactors{
			Likelihood: d.Likelihood,
			Impact:     d.Impact,
			Urgency:    d.Urgency,
		},
		Score:      d.Score,
		Level:      types.RiskLevel(d.Level),
		AssessedBy: d.AssessedBy,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
	}
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{client: client}
}

func (r *assessmentRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error) {
	id, err := nextID(ctx, r.client, r.collection("counters"), "assessment_counter")
	if err != nil {
		return nil, err
	}

	created := *a
	created.ID = id
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection("risk_assessments")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, assessmentToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk assessment")
	}

	return &created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	doc, err := r.client.Collection(r.collection("risk_assessments")).Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk assessment", goerr.V("id", id))
	}

	var d assessmentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk assessment", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *assessmentRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection("risk_assessments")).
		Where("case_id", "==", caseID).
		OrderBy("id", firestore.Desc).
		Documents(ctx)
	return r.collect(iter)
}

func (r *assessmentRepository) Latest(ctx context.Context, caseID int64) (*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection("risk_assessments")).
		Where("case_id", "==", caseID).
		OrderBy("id", firestore.Desc).
		Limit(1).
		Documents(ctx)
	assessments, err := r.collect(iter)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, nil
	}
	return assessments[0], nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection("risk_assessments")).
		OrderBy("id", firestore.Desc).
		Documents(ctx)
	return r.collect(iter)
}

func (r *assessmentRepository) collect(iter *firestore.DocumentIterator) ([]*model.RiskAssessment, error) {
	defer iter.Stop()

	var assessments []*model.RiskAssessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk assessments")
		}

		var d assessmentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk assessment")
		}
		assessments = append(assessments, d.toModel())
	}

	return assessments, nil
}
