package model

import (
	"time"

	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Transition is one audit-trail record of a case moving between workflow
// statuses. Records are append-only and never mutated after creation.
type Transition struct {
	ID              int64              `json:"id"`
	CaseID          int64              `json:"caseId"`
	FromStatus      types.CaseStatus   `json:"fromStatus"`
	ToStatus        types.CaseStatus   `json:"toStatus"`
	FromDepartment  types.DepartmentID `json:"fromDepartment"`
	ToDepartment    types.DepartmentID `json:"toDepartment"`
	Actor           string             `json:"actor"`
	Comments        string             `json:"comments,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}
