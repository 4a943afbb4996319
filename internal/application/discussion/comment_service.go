package discussion

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/discussion"
	"github.com/tenancy/backend/internal/domain/settlement"
)

// CommentService handles report discussion operations. Threads are
// append-only and stay open for the whole report lifecycle, filed
// reports included.
type CommentService struct {
	commentRepo discussion.Repository
	reportRepo  settlement.ReportRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo discussion.Repository, reportRepo settlement.ReportRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
	}
}

// Add appends a comment to a report's discussion thread
func (s *CommentService) Add(ctx context.Context, reportID, userID uuid.UUID, role discussion.AuthorRole, req CreateCommentRequest) (*CommentResponse, error) {
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		return nil, err
	}

	comment, err := discussion.NewComment(reportID, userID, role, req.Content, req.IsInternal)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	resp := toCommentResponse(comment)
	return &resp, nil
}

// List returns the thread visible to the viewer role, oldest first.
// Internal comments are omitted for tenant viewers.
func (s *CommentService) List(ctx context.Context, reportID uuid.UUID, viewer discussion.AuthorRole) (*CommentListResponse, error) {
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		return nil, err
	}

	internalVisible := viewer == discussion.AuthorOperator
	comments, err := s.commentRepo.FindByReport(ctx, reportID, internalVisible)
	if err != nil {
		return nil, err
	}

	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}
	return &CommentListResponse{
		Comments: responses,
		Total:    len(responses),
	}, nil
}
