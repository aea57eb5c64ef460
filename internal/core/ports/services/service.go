package services

// ServiceProvider bundles every service the handler layer depends on.
type ServiceProvider struct {
	UserSvc     UserService
	RequestSvc  PurchaseRequestService
	ApprovalSvc ApprovalService
	DocumentSvc DocumentService
}
