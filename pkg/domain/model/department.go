package model

import "github.com/mopc-lab/expropia/pkg/domain/types"

// Department is one organizational unit participating in the workflow.
// Departments are configuration, loaded at startup and read-only at runtime.
type Department struct {
	ID          types.DepartmentID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	IsActive    bool               `json:"isActive"`
}
