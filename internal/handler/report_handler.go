package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/repository"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles report requests
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s *service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Create returns the handler for POST /api/v1/{kind}/:id/reports
// @Summary Report content
// @Description Records the revision that is visible at report time
// @Tags reports
// @Accept json
// @Produce json
// @Param id path int true "Repository ID"
// @Param request body domain.CreateReportRequest true "Report"
// @Success 201 {object} common.APIResponse{data=domain.Report}
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
func (h *ReportHandler) Create(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req domain.CreateReportRequest
		if !bind(c, &req) {
			return
		}
		report, err := h.service.Create(c.Request.Context(), middleware.GetViewer(c), kind, id, &req)
		if err != nil {
			fail(c, err)
			return
		}
		common.CreatedResponse(c, report)
	}
}

// List handles GET /api/v1/reports?kind=&repository_id=&status=
// @Summary List reports
// @Tags reports
// @Produce json
// @Param kind query string false "waypoint, media, tag, static_content"
// @Param status query string false "pending, verified"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} common.APIResponse{data=[]domain.Report}
// @Security BearerAuth
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	f := repository.ReportFilter{
		Kind:   domain.Kind(c.Query("kind")),
		Status: c.Query("status"),
	}
	if c.Query("repository_id") != "" {
		id, ok := queryID(c, "repository_id")
		if !ok {
			return
		}
		f.RepositoryID = id
	}
	p := page(c)
	reports, total, err := h.service.List(c.Request.Context(), f, p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, reports, total)
}

// Verify handles POST /api/v1/reports/:id/verify
func (h *ReportHandler) Verify(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	report, err := h.service.Verify(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, report, nil)
}
