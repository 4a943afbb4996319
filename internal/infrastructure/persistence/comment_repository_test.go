package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenancy/backend/internal/domain/discussion"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCommentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&discussion.Comment{})
	require.NoError(t, err)

	return db
}

func TestGormCommentRepository_FindByReport(t *testing.T) {
	db := setupCommentTestDB(t)
	repo := NewGormCommentRepository(db)
	ctx := context.Background()
	reportID := uuid.New()

	public, err := discussion.NewComment(reportID, uuid.New(), discussion.AuthorTenant, "first remark", false)
	require.NoError(t, err)
	internal, err := discussion.NewComment(reportID, uuid.New(), discussion.AuthorOperator, "internal note", true)
	require.NoError(t, err)
	later, err := discussion.NewComment(reportID, uuid.New(), discussion.AuthorOperator, "reply", false)
	require.NoError(t, err)
	later.CreatedAt = public.CreatedAt.Add(time.Minute)

	require.NoError(t, repo.Save(ctx, public))
	require.NoError(t, repo.Save(ctx, internal))
	require.NoError(t, repo.Save(ctx, later))

	t.Run("operator view includes internal comments", func(t *testing.T) {
		comments, err := repo.FindByReport(ctx, reportID, true)
		require.NoError(t, err)
		assert.Len(t, comments, 3)
	})

	t.Run("tenant view excludes internal comments in order", func(t *testing.T) {
		comments, err := repo.FindByReport(ctx, reportID, false)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first remark", comments[0].Content)
		assert.Equal(t, "reply", comments[1].Content)
	})

	t.Run("other reports are not included", func(t *testing.T) {
		comments, err := repo.FindByReport(ctx, uuid.New(), true)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
