package services

import (
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
)

// ContainerDeps carries everything the services need beyond repositories.
type ContainerDeps struct {
	FileStore  portsrepo.FileStore
	Fetcher    portsrepo.URLFetcher
	Recognizer portssvc.TextRecognizer
	Refiner    portssvc.TextRefiner
	Auth       AuthConfig
	Documents  DocumentServiceConfig
}

// NewContainer creates a service provider with properly initialized dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceProvider {
	return &portssvc.ServiceProvider{
		UserSvc:     NewUserService(repos.UserRepo, deps.Auth),
		RequestSvc:  NewPurchaseRequestService(repos.RequestRepo, repos.ApprovalRepo),
		ApprovalSvc: NewApprovalService(repos.RequestRepo, deps.FileStore),
		DocumentSvc: NewDocumentService(
			repos.RequestRepo,
			repos.AttachmentRepo,
			repos.FinanceCommentRepo,
			deps.FileStore,
			deps.Fetcher,
			deps.Recognizer,
			deps.Refiner,
			deps.Documents,
		),
	}
}
