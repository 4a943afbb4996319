package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/approval"
)

// CreateApprovalRequest opens a tenant review window for a check-in
// inspection. A zero deadline falls back to the configured default
// window counted from now.
type CreateApprovalRequest struct {
	CheckInID uuid.UUID  `json:"check_in_id" binding:"required"`
	Deadline  *time.Time `json:"deadline"`
}

// DecisionRequest carries a tenant approval or dispute. Comments are
// optional on approval and required on dispute.
type DecisionRequest struct {
	Comments string `json:"comments"`
}

// UpdateCommentsRequest edits the tenant's comments on a pending review
type UpdateCommentsRequest struct {
	Comments string `json:"comments"`
}

// ApprovalResponse is the API shape of a tenant approval. Status is the
// effective status as of the request; a lapsed pending review reads as
// approved.
type ApprovalResponse struct {
	ID             uuid.UUID  `json:"id"`
	CheckInID      uuid.UUID  `json:"check_in_id"`
	Status         string     `json:"status"`
	Deadline       time.Time  `json:"deadline"`
	Remaining      string     `json:"remaining"`
	AutoApproved   bool       `json:"auto_approved"`
	TenantComments string     `json:"tenant_comments,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toApprovalResponse(a *approval.TenantApproval, now time.Time) *ApprovalResponse {
	effective := a.EffectiveStatus(now)
	return &ApprovalResponse{
		ID:             a.ID,
		CheckInID:      a.CheckInID,
		Status:         effective.String(),
		Deadline:       a.Deadline,
		Remaining:      approval.FormatRemaining(a.Remaining(now)),
		AutoApproved:   effective == approval.StatusApproved && a.Status == approval.StatusPending,
		TenantComments: a.TenantComments,
		DecidedAt:      a.DecidedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
