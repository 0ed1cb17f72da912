package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Case represents an expropriation case (expediente): one property being
// acquired, tracked through the administrative workflow from intake to
// completion.
type Case struct {
	ID         int64            `json:"id"`
	CaseNumber string           `json:"caseNumber"`
	Status     types.CaseStatus `json:"status"`
	Department types.DepartmentID `json:"department"`

	// Property and owner information
	OwnerName        string  `json:"ownerName"`
	OwnerNationalID  string  `json:"ownerNationalId"`
	Address          string  `json:"address"`
	Municipality     string  `json:"municipality"`
	Province         string  `json:"province"`
	LandArea         float64 `json:"landArea"`         // square meters
	ConstructionArea float64 `json:"constructionArea"` // square meters
	AppraisalValue   float64 `json:"appraisalValue"`

	CreatedBy string         `json:"createdBy"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate checks intake constraints: required owner fields and non-negative
// monetary and area values.
func (c *Case) Validate() error {
	if c.OwnerName == "" {
		return goerr.New("owner name is required")
	}
	if c.OwnerNationalID == "" {
		return goerr.New("owner national ID is required")
	}
	if c.AppraisalValue < 0 {
		return goerr.New("appraisal value cannot be negative", goerr.V(AmountKey, c.AppraisalValue))
	}
	if c.LandArea < 0 {
		return goerr.New("land area cannot be negative", goerr.V(ValueKey, c.LandArea))
	}
	if c.ConstructionArea < 0 {
		return goerr.New("construction area cannot be negative", goerr.V(ValueKey, c.ConstructionArea))
	}
	return nil
}

// DaysInProcess returns how many whole days the case has been in process,
// counted from StartedAt when set, otherwise from creation.
func (c *Case) DaysInProcess(now time.Time) int {
	start := c.CreatedAt
	if c.StartedAt != nil {
		start = *c.StartedAt
	}
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}

// ProgressPercentage derives workflow progress from the status order.
func (c *Case) ProgressPercentage() int {
	order := c.Status.Normalize().Order()
	total := types.CaseStatusCompleted.Order()
	if order <= 0 || total <= 0 {
		return 0
	}
	pct := order * 100 / total
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatCaseNumber builds the unique case number from the intake year and a
// per-year sequence, e.g. EXP-2026-000123.
func FormatCaseNumber(year int, seq int64) string {
	return fmt.Sprintf("EXP-%04d-%06d", year, seq)
}
