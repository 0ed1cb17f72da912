package interfaces

import "github.com/mopc-lab/expropia/pkg/domain/types"

// ListCaseOption is a functional option for filtering cases in List
type ListCaseOption func(*listCaseConfig)

type listCaseConfig struct {
	status     *types.CaseStatus
	department *types.DepartmentID
}

// WithStatus filters cases by status
func WithStatus(status types.CaseStatus) ListCaseOption {
	return func(c *listCaseConfig) {
		c.status = &status
	}
}

// WithDepartment filters cases by current department
func WithDepartment(department types.DepartmentID) ListCaseOption {
	return func(c *listCaseConfig) {
		c.department = &department
	}
}

// BuildListCaseConfig builds a listCaseConfig from options
func BuildListCaseConfig(opts ...ListCaseOption) *listCaseConfig {
	cfg := &listCaseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listCaseConfig) Status() *types.CaseStatus {
	return c.status
}

// Department returns the department filter value, or nil if not set
func (c *listCaseConfig) Department() *types.DepartmentID {
	return c.department
}
