package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/model/auth"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/mopc-lab/expropia/pkg/service/storage"
	"github.com/mopc-lab/expropia/pkg/utils/async"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
	"github.com/mopc-lab/expropia/pkg/utils/safe"
)

type DocumentUseCase struct {
	repo       interfaces.Repository
	storageSvc storage.Service
	docTypes   map[string]*model.DocumentType
	slackSvc   slack.Service
}

func NewDocumentUseCase(repo interfaces.Repository, storageSvc storage.Service, docTypes map[string]*model.DocumentType, slackSvc slack.Service) *DocumentUseCase {
	return &DocumentUseCase{
		repo:       repo,
		storageSvc: storageSvc,
		docTypes:   docTypes,
		slackSvc:   slackSvc,
	}
}

// UploadInput carries the parameters of a document upload.
type UploadInput struct {
	CaseID      int64
	TypeID      types.DocumentTypeID
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores a document file and its metadata. The SHA-256 digest is
// computed while the body streams to storage. When a document of the same
// type and filename already exists on the case, the upload becomes the next
// version chained to its predecessor.
func (uc *DocumentUseCase) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	c, err := uc.repo.Case().Get(ctx, input.CaseID)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, input.CaseID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, input.CaseID))
	}

	if len(uc.docTypes) > 0 {
		docType, ok := uc.docTypes[input.TypeID.String()]
		if !ok {
			return nil, goerr.Wrap(ErrUnknownDocType, "document type not configured",
				goerr.V("type", input.TypeID))
		}
		if err := docType.ValidateFile(input.Filename, input.Size); err != nil {
			return nil, err
		}
	}

	doc := &model.Document{
		ID:          types.DocumentID(uuid.NewString()),
		CaseID:      input.CaseID,
		TypeID:      input.TypeID,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Version:     1,
		UploadedBy:  auth.UserIDFromContext(ctx),
	}
	if err := doc.Validate(); err != nil {
		return nil, goerr.Wrap(err, "document validation failed")
	}

	if prev := uc.findPredecessor(ctx, input); prev != nil {
		doc.Version = prev.Version + 1
		doc.PreviousID = prev.ID
	}

	doc.StoragePath = fmt.Sprintf("cases/%d/documents/%s/%s", input.CaseID, doc.ID, input.Filename)

	hasher := sha256.New()
	counter := &countingReader{r: io.TeeReader(input.Body, hasher)}
	if err := uc.storageSvc.Put(ctx, doc.StoragePath, counter); err != nil {
		return nil, goerr.Wrap(err, "failed to store document body",
			goerr.V(CaseIDKey, input.CaseID),
			goerr.V("path", doc.StoragePath))
	}
	doc.SHA256 = hex.EncodeToString(hasher.Sum(nil))
	doc.Size = counter.n

	created, err := uc.repo.Document().Create(ctx, doc)
	if err != nil {
		if delErr := uc.storageSvc.Delete(ctx, doc.StoragePath); delErr != nil {
			return nil, goerr.Wrap(err, "failed to store document metadata, and also failed to remove the uploaded body",
				goerr.V("cleanup_error", delErr),
				goerr.V("path", doc.StoragePath))
		}
		return nil, goerr.Wrap(err, "failed to store document metadata", goerr.V(CaseIDKey, input.CaseID))
	}

	uc.announceUpload(ctx, c, created)

	return created, nil
}

// GetDocument retrieves document metadata by ID.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrDocumentNotFound, "document not found", goerr.V(DocumentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V(DocumentIDKey, id))
	}
	return doc, nil
}

// ListByCase returns all document records of a case.
func (uc *DocumentUseCase) ListByCase(ctx context.Context, caseID int64) ([]*model.Document, error) {
	docs, err := uc.repo.Document().ListByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V(CaseIDKey, caseID))
	}
	return docs, nil
}

// Download opens the document body for reading. The caller must close the
// returned reader.
func (uc *DocumentUseCase) Download(ctx context.Context, id types.DocumentID) (*model.Document, io.ReadCloser, error) {
	doc, err := uc.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := uc.storageSvc.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open document body",
			goerr.V(DocumentIDKey, id),
			goerr.V("path", doc.StoragePath))
	}
	return doc, body, nil
}

// Verify recomputes the stored body's digest and compares it with the
// recorded SHA-256. Returns ErrIntegrityViolation on mismatch.
func (uc *DocumentUseCase) Verify(ctx context.Context, id types.DocumentID) error {
	doc, body, err := uc.Download(ctx, id)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, body)

	hasher := sha256.New()
	if _, err := io.Copy(hasher, body); err != nil {
		return goerr.Wrap(err, "failed to read document body", goerr.V(DocumentIDKey, id))
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if actual != doc.SHA256 {
		return goerr.Wrap(ErrIntegrityViolation, "digest mismatch",
			goerr.V(DocumentIDKey, id),
			goerr.V("recorded", doc.SHA256),
			goerr.V("actual", actual))
	}
	return nil
}

// Review approves or rejects a pending document.
func (uc *DocumentUseCase) Review(ctx context.Context, id types.DocumentID, approve bool) (*model.Document, error) {
	doc, err := uc.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if approve {
		doc.Status = types.DocumentStatusApproved
	} else {
		doc.Status = types.DocumentStatusRejected
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update document status", goerr.V(DocumentIDKey, id))
	}
	return updated, nil
}

// DeleteDocument removes the metadata record and the stored body.
func (uc *DocumentUseCase) DeleteDocument(ctx context.Context, id types.DocumentID) error {
	doc, err := uc.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Document().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete document record", goerr.V(DocumentIDKey, id))
	}

	if err := uc.storageSvc.Delete(ctx, doc.StoragePath); err != nil {
		errutil.Handle(ctx, err, "failed to delete document body")
	}
	return nil
}

// findPredecessor returns the newest existing document of the same type and
// filename on the case, or nil.
func (uc *DocumentUseCase) findPredecessor(ctx context.Context, input UploadInput) *model.Document {
	existing, err := uc.repo.Document().ListByCase(ctx, input.CaseID)
	if err != nil {
		return nil
	}

	var prev *model.Document
	for _, doc := range existing {
		if doc.TypeID != input.TypeID || doc.Filename != input.Filename {
			continue
		}
		if prev == nil || doc.Version > prev.Version {
			prev = doc
		}
	}
	return prev
}

func (uc *DocumentUseCase) announceUpload(ctx context.Context, c *model.Case, doc *model.Document) {
	if uc.slackSvc == nil {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.slackSvc.NotifyDocumentReview(ctx, c, doc); err != nil {
			errutil.Handle(ctx, err, "failed to announce document upload to Slack")
		}
		return nil
	})
}

// countingReader counts bytes as they stream through
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
