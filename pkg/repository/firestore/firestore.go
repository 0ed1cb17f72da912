package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// Firestore is the production repository backend.
type Firestore struct {
	client       *firestore.Client
	caseRepo     *caseRepository
	transition   *transitionRepository
	task         *taskRepository
	document     *documentRepository
	notification *notificationRepository
	assessment   *assessmentRepository
	matrix       *matrixRepository
}

var _ interfaces.Repository = &Firestore{}

// Option configures the Firestore repository
type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, used to isolate test runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.caseRepo.collectionPrefix = prefix
		f.transition.collectionPrefix = prefix
		f.task.collectionPrefix = prefix
		f.document.collectionPrefix = prefix
		f.notification.collectionPrefix = prefix
		f.assessment.collectionPrefix = prefix
		f.matrix.collectionPrefix = prefix
	}
}

// New creates a Firestore repository. databaseID may be empty for the
// default database. The caller is responsible for Close.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:       client,
		caseRepo:     newCaseRepository(client),
		transition:   newTransitionRepository(client),
		task:         newTaskRepository(client),
		document:     newDocumentRepository(client),
		notification: newNotificationRepository(client),
		assessment:   newAssessmentRepository(client),
		matrix:       newMatrixRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.caseRepo
}

func (f *Firestore) Transition() interfaces.TransitionRepository {
	return f.transition
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notification
}

func (f *Firestore) RiskAssessment() interfaces.RiskAssessmentRepository {
	return f.assessment
}

func (f *Firestore) ApprovalMatrix() interfaces.ApprovalMatrixRepository {
	return f.matrix
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

// nextID increments and returns a named counter inside a transaction.
// Counter documents live in a shared counters collection so every entity
// gets monotonic int64 IDs like the historical system.
func nextID(ctx context.Context, client *firestore.Client, collection, counterName string) (int64, error) {
	counterRef := client.Collection(collection).Doc(counterName)

	var next int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": next,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		current, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		next = current.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: next},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", counterName))
	}

	return next, nil
}
