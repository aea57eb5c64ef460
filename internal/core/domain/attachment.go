package domain

import "time"

// Attachment is an ancillary file owned by a purchase request. Either
// FileRef (stored bytes) or ExternalURL (client-side upload) is set.
type Attachment struct {
	AttachmentID string    `json:"attachmentID"`
	RequestID    string    `json:"requestID"`
	FileRef      *string   `json:"fileRef,omitempty"`
	ExternalURL  *string   `json:"externalURL,omitempty"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// FinanceComment is a note a finance user leaves on a request.
type FinanceComment struct {
	CommentID string    `json:"commentID"`
	RequestID string    `json:"requestID"`
	UserID    string    `json:"userID"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
