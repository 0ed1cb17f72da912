package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/repository/memory"
	"github.com/mopc-lab/expropia/pkg/usecase"
)

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	for _, title := range []string{"first", "second"} {
		_, err := repo.Notification().Create(ctx, &model.Notification{
			RecipientID: "U123",
			Type:        types.NotificationTypeTransition,
			Title:       title,
		})
		gt.NoError(t, err).Required()
	}

	unread, err := uc.Notification.List(ctx, "U123", true)
	gt.NoError(t, err).Required()
	gt.Array(t, unread).Length(2)
	gt.Value(t, unread[0].Title).Equal("second")

	gt.NoError(t, uc.Notification.MarkRead(ctx, unread[1].ID, "U123")).Required()

	unread, err = uc.Notification.List(ctx, "U123", true)
	gt.NoError(t, err).Required()
	gt.Array(t, unread).Length(1)

	// Someone else's notification cannot be marked.
	err = uc.Notification.MarkRead(ctx, unread[0].ID, "U999")
	gt.Value(t, err).NotNil()

	affected, err := uc.Notification.MarkAllRead(ctx, "U123")
	gt.NoError(t, err).Required()
	gt.Value(t, affected).Equal(int64(1))

	all, err := uc.Notification.List(ctx, "U123", false)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(2)
}
