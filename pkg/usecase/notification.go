package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
)

type NotificationUseCase struct {
	repo interfaces.Repository
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List returns the notifications of a recipient, newest first.
func (uc *NotificationUseCase) List(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := uc.repo.Notification().ListByRecipient(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications", goerr.V("recipient", recipientID))
	}
	return notifications, nil
}

// MarkRead marks one notification of the recipient as read.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id int64, recipientID string) error {
	if err := uc.repo.Notification().MarkRead(ctx, id, recipientID); err != nil {
		return goerr.Wrap(err, "failed to mark notification read",
			goerr.V("id", id), goerr.V("recipient", recipientID))
	}
	return nil
}

// MarkAllRead marks all notifications of the recipient as read and returns
// the affected count.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	affected, err := uc.repo.Notification().MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to mark notifications read", goerr.V("recipient", recipientID))
	}
	return affected, nil
}
