package dto

// DecisionRequest is an approver's verdict on the request's current level.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments" binding:"omitempty,max=2000"`
}
