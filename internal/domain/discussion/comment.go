package discussion

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/shared"
)

// AuthorRole identifies who wrote a comment
type AuthorRole string

const (
	AuthorOperator AuthorRole = "operator"
	AuthorTenant   AuthorRole = "tenant"
)

// IsValid checks if the role is a valid AuthorRole
func (r AuthorRole) IsValid() bool {
	return r == AuthorOperator || r == AuthorTenant
}

// Comment is an append-only discussion entry scoped to a comparison
// report. Internal comments are operator-only and never reach a
// tenant-facing read path. Comments have no edit or delete operations.
type Comment struct {
	shared.BaseEntity
	ReportID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null"`
	AuthorRole AuthorRole `gorm:"size:20;not null"`
	Content    string     `gorm:"type:text;not null"`
	IsInternal bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "report_comments"
}

// NewComment creates a comment on a report. Content must be non-empty
// after trimming; only operator-class authors may mark a comment internal.
func NewComment(reportID, userID uuid.UUID, role AuthorRole, content string, isInternal bool) (*Comment, error) {
	if reportID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REPORT", "Report ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Author role must be operator or tenant")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Comment content cannot be empty")
	}
	if isInternal && role != AuthorOperator {
		return nil, shared.NewDomainError("FORBIDDEN", "Only operators may create internal comments")
	}

	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		ReportID:   reportID,
		UserID:     userID,
		AuthorRole: role,
		Content:    content,
		IsInternal: isInternal,
	}, nil
}

// VisibleTo reports whether the comment may be shown to a viewer role
func (c *Comment) VisibleTo(viewer AuthorRole) bool {
	if c.IsInternal {
		return viewer == AuthorOperator
	}
	return true
}
