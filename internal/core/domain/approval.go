package domain

import "time"

// Decision is an approver's verdict at a single level.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Approval is an immutable decision record. At most one exists per
// (request, level) pair; its level equals the request's current level at
// the moment it was created.
type Approval struct {
	ApprovalID string    `json:"approvalID"` // Primary key (UUID)
	RequestID  string    `json:"requestID"`
	Level      int       `json:"level"`
	ApproverID string    `json:"approverID"`
	Decision   Decision  `json:"decision"`
	Comments   string    `json:"comments"`
	DecidedAt  time.Time `json:"decidedAt"`
}
