package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type documentDocument struct {
	ID          string     `firestore:"id"`
	CaseID      int64      `firestore:"case_id"`
	TypeID      string     `firestore:"type_id"`
	Filename    string     `firestore:"filename"`
	Size        int64      `firestore:"size"`
	ContentType string     `firestore:"content_type"`
	SHA256      string     `firestore:"sha256"`
	StoragePath string     `firestore:"storage_path"`
	Version     int        `firestore:"version"`
	PreviousID  string     `firestore:"previous_id"`
	Status      string     `firestore:"status"`
	UploadedBy  string     `firestore:"uploaded_by"`
	ExpiresAt   *time.Time `firestore:"expires_at"`
	CreatedAt   time.Time  `firestore:"created_at"`
	UpdatedAt   time.Time  `firestore:"updated_at"`
}

func documentToDocument(d *model.Document) *documentDocument {
	return &documentDocument{
		ID:          d.ID.String(),
		CaseID:      d.CaseID,
		TypeID:      d.TypeID.String(),
		Filename:    d.Filename,
		Size:        d.Size,
		ContentType: d.ContentType,
		SHA256:      d.SHA256,
		StoragePath: d.StoragePath,
		Version:     d.Version,
		PreviousID:  d.PreviousID.String(),
		Status:      d.Status.String(),
		UploadedBy:  d.UploadedBy,
		ExpiresAt:   d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *documentDocument) toModel() *model.Document {
	return &model.Document{
		ID:          types.DocumentID(d.ID),
		CaseID:      d.CaseID,
		TypeID:      types.DocumentTypeID(d.TypeID),
		Filename:    d.Filename,
		Size:        d.Size,
		ContentType: d.ContentType,
		SHA256:      d.SHA256,
		StoragePath: d.StoragePath,
		Version:     d.Version,
		PreviousID:  types.DocumentID(d.PreviousID),
		Status:      types.DocumentStatus(d.Status),
		UploadedBy:  d.UploadedBy,
		ExpiresAt:   d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

func (r *documentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_documents"
	}
	return "documents"
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	d := documentToDocument(doc)
	if d.Status == "" {
		d.Status = types.DocumentStatusPending.String()
	}
	d.CreatedAt = now
	d.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(d.ID)
	if _, err := docRef.Create(ctx, d); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("document already exists", goerr.V("id", d.ID))
		}
		return nil, goerr.Wrap(err, "failed to create document")
	}

	return d.toModel(), nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	docRef := r.client.Collection(r.collection()).Doc(id.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d documentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("id", id))
	}

	return d.toModel(), nil
}

func (r *documentRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.Document, error) {
	iter := r.client.Collection(r.collection()).
		Where("case_id", "==", caseID).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var d documentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		docs = append(docs, d.toModel())
	}

	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	docRef := r.client.Collection(r.collection()).Doc(doc.ID.String())

	existing, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", doc.ID))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", doc.ID))
	}

	var existingDoc documentDocument
	if err := existing.DataTo(&existingDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("id", doc.ID))
	}

	updated := documentToDocument(doc)
	updated.CreatedAt = existingDoc.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update document", goerr.V("id", doc.ID))
	}

	return updated.toModel(), nil
}

func (r *documentRepository) Delete(ctx context.Context, id types.DocumentID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}
	return nil
}
