package usecase

import (
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/mopc-lab/expropia/pkg/service/storage"
)

// UseCases bundles the application services behind the HTTP layer.
type UseCases struct {
	repo       interfaces.Repository
	workflow   *model.Workflow
	slackSvc   slack.Service
	storageSvc storage.Service
	docTypes   map[string]*model.DocumentType

	Case         *CaseUseCase
	Risk         *RiskUseCase
	Approval     *ApprovalUseCase
	Task         *TaskUseCase
	Document     *DocumentUseCase
	Notification *NotificationUseCase
	Dashboard    *DashboardUseCase
	Auth         AuthUseCaseInterface
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithWorkflow overrides the default workflow transition table
func WithWorkflow(wf *model.Workflow) Option {
	return func(uc *UseCases) {
		uc.workflow = wf
	}
}

// WithSlack enables Slack announcements for case events
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slackSvc = svc
	}
}

// WithStorage sets the backend for document file bodies
func WithStorage(svc storage.Service) Option {
	return func(uc *UseCases) {
		uc.storageSvc = svc
	}
}

// WithDocumentTypes sets the accepted document type definitions, keyed by
// type ID
func WithDocumentTypes(docTypes map[string]*model.DocumentType) Option {
	return func(uc *UseCases) {
		uc.docTypes = docTypes
	}
}

// WithAuth sets the authentication implementation
func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// New builds the use case bundle on top of the given repository.
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		workflow: model.DefaultWorkflow(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.storageSvc == nil {
		uc.storageSvc = storage.NewMemory()
	}
	if uc.Auth == nil {
		uc.Auth = NewNoAuthnUseCase(repo, "anonymous", "", "Anonymous")
	}

	uc.Notification = NewNotificationUseCase(repo)
	uc.Case = NewCaseUseCase(repo, uc.workflow, uc.slackSvc)
	uc.Risk = NewRiskUseCase(repo)
	uc.Approval = NewApprovalUseCase(repo)
	uc.Task = NewTaskUseCase(repo)
	uc.Document = NewDocumentUseCase(repo, uc.storageSvc, uc.docTypes, uc.slackSvc)
	uc.Dashboard = NewDashboardUseCase(repo)

	return uc
}
