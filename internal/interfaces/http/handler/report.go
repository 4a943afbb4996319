package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	settlementapp "github.com/tenancy/backend/internal/application/settlement"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/infrastructure/auth"
)

// ReportHandler handles settlement report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *settlementapp.ReportService
	exportService *settlementapp.ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *settlementapp.ReportService, exportService *settlementapp.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// ListReportsRequest represents report listing query parameters
// @Description Query parameters for listing settlement reports
type ListReportsRequest struct {
	PropertyID *string `form:"property_id"`
	TenantID   *string `form:"tenant_id"`
	Status     *string `form:"status"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
	OrderBy    string  `form:"order_by"`
	OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Generate godoc
// @Summary      Generate a settlement report
// @Description  Build a comparison report from a matched check-in/check-out inspection pair
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        request body settlementapp.GenerateReportRequest true "Report generation request"
// @Success      201 {object} dto.Response{data=settlementapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req settlementapp.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, report)
}

// GetByID godoc
// @Summary      Get settlement report by ID
// @Description  Retrieve the full report aggregate including items
// @Tags         settlement-reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=settlementapp.ReportResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id} [get]
func (h *ReportHandler) GetByID(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), reportID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// List godoc
// @Summary      List settlement reports
// @Description  Retrieve a paginated list of reports with optional filtering
// @Tags         settlement-reports
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        status query string false "Report status" Enums(draft, under_review, awaiting_signatures, signed, filed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]settlementapp.ReportResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var req ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := settlementapp.ListReportsQuery{Status: req.Status}
	query.Filter.Page = req.Page
	query.Filter.PageSize = req.PageSize
	query.Filter.OrderBy = req.OrderBy
	query.Filter.OrderDir = req.OrderDir

	if req.PropertyID != nil && *req.PropertyID != "" {
		propertyID, err := uuid.Parse(*req.PropertyID)
		if err != nil {
			h.BadRequest(c, "Invalid property ID format")
			return
		}
		query.PropertyID = &propertyID
	}
	if req.TenantID != nil && *req.TenantID != "" {
		tenantID, err := uuid.Parse(*req.TenantID)
		if err != nil {
			h.BadRequest(c, "Invalid tenant ID format")
			return
		}
		query.TenantID = &tenantID
	}

	result, err := h.reportService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Reports, result.Total, result.Page, result.PageSize)
}

// ChangeStatus godoc
// @Summary      Move a report along its lifecycle
// @Description  Apply a forward status transition to a settlement report
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body settlementapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=settlementapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/status [patch]
func (h *ReportHandler) ChangeStatus(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	var req settlementapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.ChangeStatus(c.Request.Context(), reportID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// PatchItem godoc
// @Summary      Review a report item
// @Description  Partially update a comparison item's costs, liability, status or damage note
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body settlementapp.UpdateItemRequest true "Item patch"
// @Success      200 {object} dto.Response{data=settlementapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/items/{id} [patch]
func (h *ReportHandler) PatchItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req settlementapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.PatchItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Sign godoc
// @Summary      Sign a settlement report
// @Description  Record a signature in the slot matching the caller's role
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body settlementapp.SignRequest true "Signature payload"
// @Success      200 {object} dto.Response{data=settlementapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/sign [post]
func (h *ReportHandler) Sign(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	var req settlementapp.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var role settlement.SignerRole
	caller := getUserRole(c)
	switch {
	case caller.IsOperatorClass():
		role = settlement.SignerOperator
	case caller == auth.RoleTenant:
		role = settlement.SignerTenant
	default:
		h.Unauthorized(c, "Caller role could not be resolved")
		return
	}

	report, err := h.reportService.Sign(c.Request.Context(), reportID, role, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// RenderPDF godoc
// @Summary      Render a report as PDF
// @Description  Render the report document from persisted state and return the PDF bytes
// @Tags         settlement-reports
// @Produce      application/pdf
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/pdf [post]
func (h *ReportHandler) RenderPDF(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	pdf, err := h.exportService.RenderPDF(c.Request.Context(), reportID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="settlement-report-%s.pdf"`, reportID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// SendToFinanceResponse represents the finance delivery outcome
// @Description Finance delivery confirmation
type SendToFinanceResponse struct {
	Delivery string `json:"delivery"`
}

// SendToFinance godoc
// @Summary      Send a report to finance
// @Description  Deliver the report snapshot to the finance gateway, optionally with the rendered PDF attached
// @Tags         settlement-reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body settlementapp.SendToFinanceRequest false "Delivery options"
// @Success      200 {object} dto.Response{data=SendToFinanceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settlement-reports/{id}/send-to-finance [post]
func (h *ReportHandler) SendToFinance(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	var req settlementapp.SendToFinanceRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	delivery, err := h.exportService.SendToFinance(c.Request.Context(), reportID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, SendToFinanceResponse{Delivery: delivery})
}
