package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type caseDocument struct {
	ID               int64                  `firestore:"id"`
	CaseNumber       string                 `firestore:"case_number"`
	Status           string                 `firestore:"status"`
	Department       string                 `firestore:"department"`
	OwnerName        string                 `firestore:"owner_name"`
	OwnerNationalID  string                 `firestore:"owner_national_id"`
	Address          string                 `firestore:"address"`
	Municipality     string                 `firestore:"municipality"`
	Province         string                 `firestore:"province"`
	LandArea         float64                `firestore:"land_area"`
	ConstructionArea float64                `firestore:"construction_area"`
	AppraisalValue   float64                `firestore:"appraisal_value"`
	CreatedBy        string                 `firestore:"created_by"`
	Metadata         map[string]interface{} `firestore:"metadata"`
	StartedAt        *time.Time             `firestore:"started_at"`
	CompletedAt      *time.Time             `firestore:"completed_at"`
	CreatedAt        time.Time              `firestore:"created_at"`
	UpdatedAt        time.Time              `firestore:"updated_at"`
}

func caseToDocument(c *model.Case) *caseDocument {
	return &caseDocument{
		ID:               c.ID,
		CaseNumber:       c.CaseNumber,
		Status:           c.Status.String(),
		Department:       c.Department.String(),
		OwnerName:        c.OwnerName,
		OwnerNationalID:  c.OwnerNationalID,
		Address:          c.Address,
		Municipality:     c.Municipality,
		Province:         c.Province,
		LandArea:         c.LandArea,
		ConstructionArea: c.ConstructionArea,
		AppraisalValue:   c.AppraisalValue,
		CreatedBy:        c.CreatedBy,
		Metadata:         c.Metadata,
		StartedAt:        c.StartedAt,
		CompletedAt:      c.CompletedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (d *caseDocument) toModel() *model.Case {
	return &model.Case{
		ID:               d.ID,
		CaseNumber:       d.CaseNumber,
		Status:           types.CaseStatus(d.Status),
		Department:       types.DepartmentID(d.Department),
		OwnerName:        d.OwnerName,
		OwnerNationalID:  d.OwnerNationalID,
		Address:          d.Address,
		Municipality:     d.Municipality,
		Province:         d.Province,
		LandArea:         d.LandArea,
		ConstructionArea: d.ConstructionArea,
		AppraisalValue:   d.AppraisalValue,
		CreatedBy:        d.CreatedBy,
		Metadata:         d.Metadata,
		StartedAt:        d.StartedAt,
		CompletedAt:      d.CompletedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{client: client}
}

func (r *caseRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	id, err := nextID(ctx, r.client, r.collection("counters"), "case_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := caseToDocument(c)
	doc.ID = id
	doc.Status = c.Status.Normalize().String()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if doc.CaseNumber == "" {
		seq, err := nextID(ctx, r.client, r.collection("counters"),
			fmt.Sprintf("case_number_%d", now.Year()))
		if err != nil {
			return nil, err
		}
		doc.CaseNumber = model.FormatCaseNumber(now.Year(), seq)
	}

	docRef := r.client.Collection(r.collection("cases")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}

	return doc.toModel(), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	docRef := r.client.Collection(r.collection("cases")).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var caseDoc caseDocument
	if err := doc.DataTo(&caseDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal case", goerr.V("id", id))
	}

	return caseDoc.toModel(), nil
}

func (r *caseRepository) GetByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	iter := r.client.Collection(r.collection("cases")).
		Where("case_number", "==", caseNumber).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query case by number",
			goerr.V("case_number", caseNumber))
	}

	var caseDoc caseDocument
	if err := doc.DataTo(&caseDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal case")
	}

	return caseDoc.toModel(), nil
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	query := r.client.Collection(r.collection("cases")).Query
	if cfg.Status() != nil {
		query = query.Where("status", "==", cfg.Status().String())
	}
	if cfg.Department() != nil {
		query = query.Where("department", "==", cfg.Department().String())
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var cases []*model.Case
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var caseDoc caseDocument
		if err := doc.DataTo(&caseDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal case")
		}
		cases = append(cases, caseDoc.toModel())
	}

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	docRef := r.client.Collection(r.collection("cases")).Doc(fmt.Sprintf("%d", c.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", c.ID))
	}

	var existing caseDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal case", goerr.V("id", c.ID))
	}

	updated := caseToDocument(c)
	updated.CaseNumber = existing.CaseNumber
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return updated.toModel(), nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection("cases")).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("id", id))
	}
	return nil
}
