package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type notificationDocument struct {
	ID          int64     `firestore:"id"`
	RecipientID string    `firestore:"recipient_id"`
	Type        string    `firestore:"type"`
	Title       string    `firestore:"title"`
	Body        string    `firestore:"body"`
	CaseID      int64     `firestore:"case_id"`
	Read        bool      `firestore:"read"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (d *notificationDocument) toModel() *model.Notification {
	return &model.Notification{
		ID:          d.ID,
		RecipientID: d.RecipientID,
		Type:        types.NotificationType(d.Type),
		Title:       d.Title,
		Body:        d.Body,
		CaseID:      d.CaseID,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
	}
}

type notificationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNotificationRepository(client *firestore.Client) *notificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) collection(name string) string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	id, err := nextID(ctx, r.client, r.collection("counters"), "notification_counter")
	if err != nil {
		return nil, err
	}

	doc := &notificationDocument{
		ID:          id,
		RecipientID: n.RecipientID,
		Type:        n.Type.String(),
		Title:       n.Title,
		Body:        n.Body,
		CaseID:      n.CaseID,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection("notifications")).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create notification")
	}

	return doc.toModel(), nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	query := r.client.Collection(r.collection("notifications")).
		Where("recipient_id", "==", recipientID)
	if unreadOnly {
		query = query.Where("read", "==", false)
	}

	iter := query.OrderBy("id", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var notifications []*model.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications")
		}

		var n notificationDocument
		if err := doc.DataTo(&n); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notification")
		}
		notifications = append(notifications, n.toModel())
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64, recipientID string) error {
	docRef := r.client.Collection(r.collection("notifications")).Doc(fmt.Sprintf("%d", id))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get notification", goerr.V("id", id))
	}

	var n notificationDocument
	if err := doc.DataTo(&n); err != nil {
		return goerr.Wrap(err, "failed to unmarshal notification", goerr.V("id", id))
	}
	if n.RecipientID != recipientID {
		return goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("id", id), goerr.V("recipient", recipientID))
	}

	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	}); err != nil {
		return goerr.Wrap(err, "failed to mark notification read", goerr.V("id", id))
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	iter := r.client.Collection(r.collection("notifications")).
		Where("recipient_id", "==", recipientID).
		Where("read", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var affected int64
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return affected, goerr.Wrap(err, "failed to iterate notifications")
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
		}); err != nil {
			return affected, goerr.Wrap(err, "failed to mark notification read")
		}
		affected++
	}

	return affected, nil
}
