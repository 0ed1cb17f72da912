package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Document is the metadata record for one uploaded file. The file bytes live
// in the storage service under StoragePath; SHA256 is computed while the
// upload streams through and is the integrity reference for later
// verification. New versions chain to their predecessor via PreviousID.
type Document struct {
	ID          types.DocumentID     `json:"id"`
	CaseID      int64                `json:"caseId"`
	TypeID      types.DocumentTypeID `json:"typeId"`
	Filename    string               `json:"filename"`
	Size        int64                `json:"size"`
	ContentType string               `json:"contentType"`
	SHA256      string               `json:"sha256"`
	StoragePath string               `json:"storagePath"`
	Version     int                  `json:"version"`
	PreviousID  types.DocumentID     `json:"previousId,omitempty"`
	Status      types.DocumentStatus `json:"status"`
	UploadedBy  string               `json:"uploadedBy"`
	ExpiresAt   *time.Time           `json:"expiresAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Validate checks required metadata fields.
func (d *Document) Validate() error {
	if d.CaseID == 0 {
		return goerr.New("document must belong to a case")
	}
	if d.Filename == "" {
		return goerr.New("document filename is required")
	}
	if err := d.TypeID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid document type")
	}
	return nil
}

// Extension returns the lowercase file extension without the leading dot.
func (d *Document) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Filename)), ".")
}

// IsExpired reports whether the document passed its expiry time.
func (d *Document) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// DocumentType is the administrator-configured constraint set for a class of
// documents (deed, appraisal report, identity document, ...).
type DocumentType struct {
	ID                types.DocumentTypeID `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	MaxSizeBytes      int64                `json:"maxSizeBytes"`
	AllowedExtensions []string             `json:"allowedExtensions"`
	Required          bool                 `json:"required"`
}

// ValidateFile checks an upload against the type constraints.
func (t *DocumentType) ValidateFile(filename string, size int64) error {
	if t.MaxSizeBytes > 0 && size > t.MaxSizeBytes {
		return goerr.New("file exceeds maximum size for document type",
			goerr.V("type", t.ID),
			goerr.V("size", size),
			goerr.V("max_size", t.MaxSizeBytes))
	}
	if len(t.AllowedExtensions) == 0 {
		return nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range t.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return goerr.New("file extension not allowed for document type",
		goerr.V("type", t.ID),
		goerr.V("extension", ext))
}
