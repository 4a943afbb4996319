package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	approvalapp "github.com/tenancy/backend/internal/application/approval"
)

// ApprovalHandler handles tenant approval API endpoints
type ApprovalHandler struct {
	BaseHandler
	approvalService *approvalapp.Service
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *approvalapp.Service) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// CreateApprovalRequest represents a request to open a review window
// @Description Request body for opening a tenant review window
type CreateApprovalRequest struct {
	Deadline *time.Time `json:"deadline"`
}

// Create godoc
// @Summary      Open a tenant review window
// @Description  Create the approval record for a check-in inspection; the deadline defaults to the configured window
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Param        id path string true "Check-in ID" format(uuid)
// @Param        request body CreateApprovalRequest false "Review window options"
// @Success      201 {object} dto.Response{data=approvalapp.ApprovalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkins/{id}/approval [post]
func (h *ApprovalHandler) Create(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check-in ID format")
		return
	}

	var req CreateApprovalRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	record, err := h.approvalService.Create(c.Request.Context(), approvalapp.CreateApprovalRequest{
		CheckInID: checkInID,
		Deadline:  req.Deadline,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// Get godoc
// @Summary      Get tenant approval state
// @Description  Return the effective approval state and remaining review window for a check-in
// @Tags         checkins
// @Produce      json
// @Param        id path string true "Check-in ID" format(uuid)
// @Success      200 {object} dto.Response{data=approvalapp.ApprovalResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkins/{id}/approval [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check-in ID format")
		return
	}

	record, err := h.approvalService.Get(c.Request.Context(), checkInID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Approve godoc
// @Summary      Approve a check-in inspection
// @Description  Record the tenant's approval; only available while the review is effectively pending
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Param        id path string true "Check-in ID" format(uuid)
// @Param        request body approvalapp.DecisionRequest false "Optional comments"
// @Success      200 {object} dto.Response{data=approvalapp.ApprovalResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkins/{id}/tenant-approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check-in ID format")
		return
	}

	var req approvalapp.DecisionRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	record, err := h.approvalService.Approve(c.Request.Context(), checkInID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Dispute godoc
// @Summary      Dispute a check-in inspection
// @Description  Record the tenant's dispute; comments are required
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Param        id path string true "Check-in ID" format(uuid)
// @Param        request body approvalapp.DecisionRequest true "Dispute comments"
// @Success      200 {object} dto.Response{data=approvalapp.ApprovalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkins/{id}/tenant-dispute [post]
func (h *ApprovalHandler) Dispute(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check-in ID format")
		return
	}

	var req approvalapp.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.approvalService.Dispute(c.Request.Context(), checkInID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateComments godoc
// @Summary      Update tenant comments
// @Description  Edit the tenant's comments while the review is still effectively pending
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Param        id path string true "Check-in ID" format(uuid)
// @Param        request body approvalapp.UpdateCommentsRequest true "Comments"
// @Success      200 {object} dto.Response{data=approvalapp.ApprovalResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkins/{id}/tenant-comments [patch]
func (h *ApprovalHandler) UpdateComments(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check-in ID format")
		return
	}

	var req approvalapp.UpdateCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.approvalService.UpdateComments(c.Request.Context(), checkInID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}
