package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/discussion"
	"gorm.io/gorm"
)

// GormCommentRepository implements discussion.Repository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save appends a comment; threads are append-only
func (r *GormCommentRepository) Save(ctx context.Context, comment *discussion.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByReport returns a report's comments oldest first. Internal
// comments are excluded when internalVisible is false.
func (r *GormCommentRepository) FindByReport(ctx context.Context, reportID uuid.UUID, internalVisible bool) ([]discussion.Comment, error) {
	query := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC")
	if !internalVisible {
		query = query.Where("is_internal = ?", false)
	}

	var comments []discussion.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
