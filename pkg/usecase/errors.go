package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrCaseNotFound       = errors.New("case not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrMatrixNotFound     = errors.New("approval matrix not found")
	ErrAssessmentNotFound = errors.New("risk assessment not found")

	// Workflow errors
	ErrCaseClosed         = errors.New("case is in a terminal status")
	ErrDependencyCycle    = errors.New("task dependency cycle detected")
	ErrDependencyNotMet   = errors.New("task has incomplete dependencies")
	ErrUnknownDocType     = errors.New("unknown document type")
	ErrIntegrityViolation = errors.New("stored file does not match recorded digest")
)

// Context keys for error values
const (
	CaseIDKey     = "case_id"
	TaskIDKey     = "task_id"
	DocumentIDKey = "document_id"
	MatrixIDKey   = "matrix_id"
)
