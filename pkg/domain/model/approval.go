package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// ApprovalLevel is one row of an approval matrix: a monetary range mapped to
// the sign-off it requires. MaxAmount == 0 means the range is unbounded
// above. AutoApproveConditions and EscalationRules are opaque configuration
// blobs for an external rules engine; the evaluator stores and echoes them
// but never interprets them.
type ApprovalLevel struct {
	ID                    int64            `json:"id"`
	Name                  string           `json:"name"`
	MinAmount             float64          `json:"minAmount"`
	MaxAmount             float64          `json:"maxAmount"`
	RequiredApprovers     int              `json:"requiredApprovers"`
	AutoApprove           bool             `json:"autoApprove"`
	AutoApproveConditions map[string]any   `json:"autoApproveConditions,omitempty"`
	EscalationRules       map[string]any   `json:"escalationRules,omitempty"`
	Sequence              int              `json:"sequence"`
	IsActive              bool             `json:"isActive"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// Validate checks the administrator-supplied level definition.
func (l *ApprovalLevel) Validate() error {
	if l.Name == "" {
		return goerr.New("approval level name is required")
	}
	if l.MinAmount < 0 {
		return goerr.New("approval level min amount cannot be negative", goerr.V(AmountKey, l.MinAmount))
	}
	if l.MaxAmount < 0 {
		return goerr.New("approval level max amount cannot be negative", goerr.V(AmountKey, l.MaxAmount))
	}
	if l.MaxAmount != 0 && l.MaxAmount < l.MinAmount {
		return goerr.New("approval level max amount must not be below min amount",
			goerr.V("min_amount", l.MinAmount),
			goerr.V("max_amount", l.MaxAmount))
	}
	if l.RequiredApprovers < 1 {
		return goerr.New("approval level requires at least one approver",
			goerr.V("required_approvers", l.RequiredApprovers))
	}
	return nil
}

// matches reports whether the amount falls inside the level's range.
func (l *ApprovalLevel) matches(amount float64) bool {
	if amount < l.MinAmount {
		return false
	}
	return l.MaxAmount == 0 || amount <= l.MaxAmount
}

// ApprovalMatrix is an ordered table of approval levels scoped to one entity
// type. Matrices are administrator-maintained configuration; the evaluator
// only reads snapshots supplied by the caller. Ranges are intended to be
// contiguous and non-overlapping, but the resolution below tolerates gaps
// and overlaps instead of failing.
type ApprovalMatrix struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	EntityType types.EntityType `json:"entityType"`
	Levels     []*ApprovalLevel `json:"levels"`
	IsActive   bool             `json:"isActive"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Validate checks the matrix and all of its levels.
func (m *ApprovalMatrix) Validate() error {
	if m.Name == "" {
		return goerr.New("approval matrix name is required")
	}
	if err := m.EntityType.Validate(); err != nil {
		return goerr.Wrap(err, "invalid entity type")
	}
	for _, level := range m.Levels {
		if err := level.Validate(); err != nil {
			return goerr.Wrap(err, "invalid approval level", goerr.V("level", level.Name))
		}
	}
	return nil
}

// CaseApprovalRequirement is the evaluator output for a given case value. A
// nil RequiredLevel means no configured level covers the amount; the caller
// decides whether an unconfigured case is a problem. NextLevel is the
// escalation tier that would apply at a higher amount, independent of the
// current amount.
type CaseApprovalRequirement struct {
	RequiredLevel     *ApprovalLevel `json:"requiredLevel"`
	RequiredApprovers int            `json:"requiredApprovers"`
	AutoApprove       bool           `json:"autoApprove"`
	NextLevel         *ApprovalLevel `json:"nextLevel"`
}

// Resolve selects the approval level that governs the given amount.
//
// Active levels are considered in ascending Sequence order, so overlapping
// ranges resolve to the first level the administrator defined. An empty or
// fully inactive matrix resolves to an empty requirement, not an error.
// Negative amounts violate the caller contract and return ErrInvalidInput.
func (m *ApprovalMatrix) Resolve(amount float64) (*CaseApprovalRequirement, error) {
	if amount < 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "amount cannot be negative",
			goerr.V(FieldKey, "amount"),
			goerr.V(AmountKey, amount))
	}

	active := make([]*ApprovalLevel, 0, len(m.Levels))
	for _, level := range m.Levels {
		if level != nil && level.IsActive {
			active = append(active, level)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Sequence < active[j].Sequence
	})

	req := &CaseApprovalRequirement{}
	for _, level := range active {
		if level.matches(amount) {
			req.RequiredLevel = level
			req.RequiredApprovers = level.RequiredApprovers
			req.AutoApprove = level.AutoApprove
			break
		}
	}

	if req.RequiredLevel != nil {
		for _, level := range active {
			if level.Sequence > req.RequiredLevel.Sequence {
				req.NextLevel = level
				break
			}
		}
	}

	return req, nil
}
