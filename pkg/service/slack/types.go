package slack

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

// Service posts case events to a Slack channel. All methods are safe to
// call concurrently.
type Service interface {
	// NotifyCaseTransition announces a workflow transition
	NotifyCaseTransition(ctx context.Context, c *model.Case, tr *model.Transition) error

	// NotifyTaskOverdue announces a task that passed its due date
	NotifyTaskOverdue(ctx context.Context, c *model.Case, task *model.Task) error

	// NotifyDocumentReview announces a document waiting for review
	NotifyDocumentReview(ctx context.Context, c *model.Case, doc *model.Document) error
}
