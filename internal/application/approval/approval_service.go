package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/approval"
	"github.com/tenancy/backend/internal/domain/shared"
)

// Service handles tenant approval business operations
type Service struct {
	repo          approval.Repository
	defaultWindow time.Duration
	now           func() time.Time
}

// NewService creates a new approval Service. defaultWindow is the review
// window applied when a request does not carry an explicit deadline.
func NewService(repo approval.Repository, defaultWindow time.Duration) *Service {
	return &Service{
		repo:          repo,
		defaultWindow: defaultWindow,
		now:           time.Now,
	}
}

// Create opens a review window for a check-in inspection. A second
// request for the same check-in is rejected.
func (s *Service) Create(ctx context.Context, req CreateApprovalRequest) (*ApprovalResponse, error) {
	existing, err := s.repo.FindByCheckIn(ctx, req.CheckInID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("APPROVAL_EXISTS",
			fmt.Sprintf("A review window already exists for check-in %s", req.CheckInID))
	}

	now := s.now()
	deadline := now.Add(s.defaultWindow)
	if req.Deadline != nil {
		if !req.Deadline.After(now) {
			return nil, shared.NewDomainError("INVALID_DEADLINE", "Approval deadline must be in the future")
		}
		deadline = *req.Deadline
	}

	record, err := approval.NewTenantApproval(req.CheckInID, deadline)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	return toApprovalResponse(record, now), nil
}

// Get returns the approval state for a check-in inspection
func (s *Service) Get(ctx context.Context, checkInID uuid.UUID) (*ApprovalResponse, error) {
	record, err := s.repo.FindByCheckIn(ctx, checkInID)
	if err != nil {
		return nil, err
	}
	return toApprovalResponse(record, s.now()), nil
}

// Approve records an explicit tenant approval
func (s *Service) Approve(ctx context.Context, checkInID uuid.UUID, req DecisionRequest) (*ApprovalResponse, error) {
	now := s.now()
	record, err := s.repo.Decide(ctx, checkInID, func(a *approval.TenantApproval) error {
		return a.Approve(req.Comments, now)
	})
	if err != nil {
		return nil, err
	}
	return toApprovalResponse(record, now), nil
}

// Dispute records a tenant dispute; comments are required
func (s *Service) Dispute(ctx context.Context, checkInID uuid.UUID, req DecisionRequest) (*ApprovalResponse, error) {
	now := s.now()
	record, err := s.repo.Decide(ctx, checkInID, func(a *approval.TenantApproval) error {
		return a.Dispute(req.Comments, now)
	})
	if err != nil {
		return nil, err
	}
	return toApprovalResponse(record, now), nil
}

// UpdateComments edits the tenant's comments while the review is still
// effectively pending
func (s *Service) UpdateComments(ctx context.Context, checkInID uuid.UUID, req UpdateCommentsRequest) (*ApprovalResponse, error) {
	now := s.now()
	record, err := s.repo.Decide(ctx, checkInID, func(a *approval.TenantApproval) error {
		return a.UpdateComments(req.Comments, now)
	})
	if err != nil {
		return nil, err
	}
	return toApprovalResponse(record, now), nil
}
