package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
)

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[int64]*model.Notification
	nextID        int64
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[int64]*model.Notification),
		nextID:        1,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *n
	created.ID = r.nextID
	r.nextID++
	created.Read = false
	created.CreatedAt = time.Now().UTC()

	r.notifications[created.ID] = &created

	result := created
	return &result, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Notification, 0)
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		copied := *n
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notifications[id]
	if !exists || n.RecipientID != recipientID {
		return goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("id", id), goerr.V("recipient", recipientID))
	}
	n.Read = true
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			affected++
		}
	}
	return affected, nil
}
