package memory

import (
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// Memory is the in-memory repository backend, used for development and
// testing. All sub-repositories guard their maps with RWMutex and return
// copies of stored records.
type Memory struct {
	caseRepo     *caseRepository
	transition   *transitionRepository
	task         *taskRepository
	document     *documentRepository
	notification *notificationRepository
	assessment   *assessmentRepository
	matrix       *matrixRepository
	tokens       *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		caseRepo:     newCaseRepository(),
		transition:   newTransitionRepository(),
		task:         newTaskRepository(),
		document:     newDocumentRepository(),
		notification: newNotificationRepository(),
		assessment:   newAssessmentRepository(),
		matrix:       newMatrixRepository(),
		tokens:       newTokenStore(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Transition() interfaces.TransitionRepository {
	return m.transition
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) RiskAssessment() interfaces.RiskAssessmentRepository {
	return m.assessment
}

func (m *Memory) ApprovalMatrix() interfaces.ApprovalMatrixRepository {
	return m.matrix
}

func (m *Memory) Close() error {
	return nil
}
