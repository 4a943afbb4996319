package discussion

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/discussion"
)

// CreateCommentRequest appends a comment to a report's discussion thread
type CreateCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

// CommentResponse is the API shape of a discussion comment
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	ReportID   uuid.UUID `json:"report_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorRole string    `json:"author_role"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentListResponse is a report's visible discussion thread in
// chronological order
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
}

func toCommentResponse(c *discussion.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ReportID:   c.ReportID,
		UserID:     c.UserID,
		AuthorRole: string(c.AuthorRole),
		Content:    c.Content,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}
