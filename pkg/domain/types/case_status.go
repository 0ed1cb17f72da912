package types

import "fmt"

// CaseStatus represents the status of an expropriation case
type CaseStatus string

const (
	CaseStatusInitiated CaseStatus = "INITIATED"
	CaseStatusInReview  CaseStatus = "IN_REVIEW"
	CaseStatusApproved  CaseStatus = "APPROVED"
	CaseStatusRejected  CaseStatus = "REJECTED"
	CaseStatusCompleted CaseStatus = "COMPLETED"
	CaseStatusAppealed  CaseStatus = "APPEALED"
)

// AllCaseStatuses returns all valid case statuses
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusInitiated,
		CaseStatusInReview,
		CaseStatusApproved,
		CaseStatusRejected,
		CaseStatusCompleted,
		CaseStatusAppealed,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusInitiated,
		CaseStatusInReview,
		CaseStatusApproved,
		CaseStatusRejected,
		CaseStatusCompleted,
		CaseStatusAppealed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further workflow transitions are expected from the status
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusCompleted || s == CaseStatusRejected
}

// Normalize returns the status, treating empty as CaseStatusInitiated for backward compatibility.
func (s CaseStatus) Normalize() CaseStatus {
	if s == "" {
		return CaseStatusInitiated
	}
	return s
}

// Order returns the position of the status in the nominal workflow
// progression. Used for the case progress percentage; appeal shares the
// position of the approval it contests.
func (s CaseStatus) Order() int {
	switch s {
	case CaseStatusInitiated:
		return 1
	case CaseStatusInReview:
		return 2
	case CaseStatusApproved, CaseStatusAppealed:
		return 3
	case CaseStatusRejected, CaseStatusCompleted:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}
