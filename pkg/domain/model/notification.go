package model

import (
	"time"

	"github.com/mopc-lab/expropia/pkg/domain/types"
)

// Notification is one entry in a user's notification center.
type Notification struct {
	ID          int64                  `json:"id"`
	RecipientID string                 `json:"recipientId"`
	Type        types.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	CaseID      int64                  `json:"caseId,omitempty"`
	Read        bool                   `json:"read"`
	CreatedAt   time.Time              `json:"createdAt"`
}
