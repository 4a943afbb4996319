package discussion

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenancy/backend/internal/domain/shared"
)

func TestNewComment(t *testing.T) {
	reportID := uuid.New()
	userID := uuid.New()

	t.Run("operator public comment", func(t *testing.T) {
		c, err := NewComment(reportID, userID, AuthorOperator, "please review item 3", false)
		require.NoError(t, err)
		assert.Equal(t, "please review item 3", c.Content)
		assert.False(t, c.IsInternal)
	})

	t.Run("operator internal comment", func(t *testing.T) {
		c, err := NewComment(reportID, userID, AuthorOperator, "landlord wants to waive this", true)
		require.NoError(t, err)
		assert.True(t, c.IsInternal)
	})

	t.Run("tenant cannot create internal comment", func(t *testing.T) {
		_, err := NewComment(reportID, userID, AuthorTenant, "secret", true)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("content is trimmed", func(t *testing.T) {
		c, err := NewComment(reportID, userID, AuthorTenant, "  disagree with carpet charge  ", false)
		require.NoError(t, err)
		assert.Equal(t, "disagree with carpet charge", c.Content)
	})

	t.Run("whitespace-only content rejected", func(t *testing.T) {
		_, err := NewComment(reportID, userID, AuthorTenant, "   \n\t", false)
		assert.Error(t, err)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := NewComment(reportID, userID, AuthorRole("admin"), "hello", false)
		assert.Error(t, err)
	})
}

func TestComment_VisibleTo(t *testing.T) {
	public := &Comment{IsInternal: false}
	internal := &Comment{IsInternal: true}

	assert.True(t, public.VisibleTo(AuthorTenant))
	assert.True(t, public.VisibleTo(AuthorOperator))
	assert.False(t, internal.VisibleTo(AuthorTenant))
	assert.True(t, internal.VisibleTo(AuthorOperator))
}
