package types

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// DocumentID represents a unique identifier for a document
type DocumentID string

// String returns the string representation of DocumentID
func (d DocumentID) String() string {
	return string(d)
}

// DocumentStatus represents the review status of an uploaded document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
	DocumentStatusExpired  DocumentStatus = "EXPIRED"
)

// AllDocumentStatuses returns all valid document statuses
func AllDocumentStatuses() []DocumentStatus {
	return []DocumentStatus{
		DocumentStatusPending,
		DocumentStatusApproved,
		DocumentStatusRejected,
		DocumentStatusExpired,
	}
}

// IsValid checks if the document status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending,
		DocumentStatusApproved,
		DocumentStatusRejected,
		DocumentStatusExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the document status
func (s DocumentStatus) String() string {
	return string(s)
}

// ParseDocumentStatus parses a string into a DocumentStatus
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	status := DocumentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid document status: %s", s)
	}
	return status, nil
}

// DocumentTypeID represents a unique identifier for a configured document type
type DocumentTypeID string

// Validate checks if the DocumentTypeID is valid
func (d DocumentTypeID) Validate() error {
	if d == "" {
		return goerr.New("document type ID cannot be empty")
	}
	if !idPattern.MatchString(string(d)) {
		return goerr.New("document type ID must be lowercase alphanumeric with hyphens", goerr.V("id", d))
	}
	return nil
}

// String returns the string representation of DocumentTypeID
func (d DocumentTypeID) String() string {
	return string(d)
}
