package approval

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/shared"
)

// Status represents the tenant's decision on a check-in inspection
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDisputed Status = "disputed"
)

// IsValid checks if the status is a valid approval Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// TenantApproval tracks the tenant's review of a check-in inspection: a
// pending decision with a deadline, after which the decision is treated
// as approved without tenant action. The lapse is evaluated lazily at
// read time; no scheduler materializes it.
type TenantApproval struct {
	shared.BaseEntity
	CheckInID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status         Status    `gorm:"size:20;not null;default:'pending'"`
	Deadline       time.Time `gorm:"not null"`
	TenantComments string    `gorm:"type:text"`
	DecidedAt      *time.Time
}

// TableName returns the table name for GORM
func (TenantApproval) TableName() string {
	return "checkin_tenant_approvals"
}

// NewTenantApproval creates a pending approval with the given review deadline
func NewTenantApproval(checkInID uuid.UUID, deadline time.Time) (*TenantApproval, error) {
	if checkInID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHECKIN", "Check-in inspection ID cannot be empty")
	}
	if deadline.IsZero() {
		return nil, shared.NewDomainError("INVALID_DEADLINE", "Approval deadline cannot be empty")
	}

	return &TenantApproval{
		BaseEntity: shared.NewBaseEntity(),
		CheckInID:  checkInID,
		Status:     StatusPending,
		Deadline:   deadline,
	}, nil
}

// EffectiveStatus reports the status as of now: a pending decision whose
// deadline has lapsed is implicitly approved.
func (a *TenantApproval) EffectiveStatus(now time.Time) Status {
	if a.Status == StatusPending && !now.Before(a.Deadline) {
		return StatusApproved
	}
	return a.Status
}

// IsDecided reports whether the decision is settled as of now, either
// explicitly or by deadline lapse
func (a *TenantApproval) IsDecided(now time.Time) bool {
	return a.EffectiveStatus(now) != StatusPending
}

// Remaining returns the time left in the review window; non-positive
// once the deadline has passed
func (a *TenantApproval) Remaining(now time.Time) time.Duration {
	return a.Deadline.Sub(now)
}

// Approve records an explicit tenant approval. Comments are optional.
func (a *TenantApproval) Approve(comments string, now time.Time) error {
	if a.IsDecided(now) {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Approval is already %s", a.EffectiveStatus(now)))
	}

	a.Status = StatusApproved
	a.DecidedAt = &now
	if comments = strings.TrimSpace(comments); comments != "" {
		a.TenantComments = comments
	}
	a.UpdatedAt = now

	return nil
}

// Dispute records a tenant dispute. Comments are required.
func (a *TenantApproval) Dispute(comments string, now time.Time) error {
	if a.IsDecided(now) {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Approval is already %s", a.EffectiveStatus(now)))
	}
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return shared.NewDomainError("INVALID_COMMENTS", "Dispute comments cannot be empty")
	}

	a.Status = StatusDisputed
	a.DecidedAt = &now
	a.TenantComments = comments
	a.UpdatedAt = now

	return nil
}

// UpdateComments edits the tenant's comments, allowed only while the
// decision is still effectively pending
func (a *TenantApproval) UpdateComments(comments string, now time.Time) error {
	if a.IsDecided(now) {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Comments are read-only once the approval is %s", a.EffectiveStatus(now)))
	}

	a.TenantComments = strings.TrimSpace(comments)
	a.UpdatedAt = now

	return nil
}

// FormatRemaining renders the review window countdown as the largest
// whole unit among days, hours and minutes, or "Expired" once lapsed.
func FormatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "Expired"
	}
	if days := int(remaining.Hours() / 24); days >= 1 {
		return pluralize(days, "day")
	}
	if hours := int(remaining.Hours()); hours >= 1 {
		return pluralize(hours, "hour")
	}
	minutes := int(remaining.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return pluralize(minutes, "minute")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s remaining", unit)
	}
	return fmt.Sprintf("%d %ss remaining", n, unit)
}
