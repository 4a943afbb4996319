package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	discussionapp "github.com/tenancy/backend/internal/application/discussion"
	"github.com/tenancy/backend/internal/domain/discussion"
	"github.com/tenancy/backend/internal/infrastructure/auth"
)

// CommentHandler handles report discussion API endpoints
type CommentHandler struct {
	BaseHandler
	commentService *discussionapp.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *discussionapp.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func authorRole(c *gin.Context) (discussion.AuthorRole, bool) {
	role := getUserRole(c)
	switch {
	case role.IsOperatorClass():
		return discussion.AuthorOperator, true
	case role == auth.RoleTenant:
		return discussion.AuthorTenant, true
	default:
		return "", false
	}
}

// Add godoc
// @Summary      Add a comment to a report
// @Description  Append a comment to the report's discussion thread
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body discussionapp.CreateCommentRequest true "Comment payload"
// @Success      201 {object} dto.Response{data=discussionapp.CommentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/comments [post]
func (h *CommentHandler) Add(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity could not be resolved")
		return
	}

	role, ok := authorRole(c)
	if !ok {
		h.Unauthorized(c, "Caller role could not be resolved")
		return
	}

	var req discussionapp.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), reportID, userID, role, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, comment)
}

// List godoc
// @Summary      List report comments
// @Description  Return the report's discussion thread scoped to the viewer; internal notes are operator-only
// @Tags         settlement-reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=discussionapp.CommentListResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	viewer, ok := authorRole(c)
	if !ok {
		h.Unauthorized(c, "Caller role could not be resolved")
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), reportID, viewer)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, comments)
}
