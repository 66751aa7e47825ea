package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// StaticContentHandler handles editorial text requests
type StaticContentHandler struct {
	readHandler
	service *service.StaticContentService
}

// NewStaticContentHandler creates a new StaticContentHandler
func NewStaticContentHandler(s *service.StaticContentService) *StaticContentHandler {
	return &StaticContentHandler{readHandler: readHandler{reader: s}, service: s}
}

// Create handles POST /api/v1/static-contents
// @Summary Create static content
// @Description Required snippets are fixed here and checked on every later revision
// @Tags static-contents
// @Accept json
// @Produce json
// @Param request body domain.CreateStaticContentRequest true "Static content"
// @Success 201 {object} common.APIResponse{data=domain.StaticContentDetail}
// @Failure 403 {object} common.APIResponse
// @Security BearerAuth
// @Router /static-contents [post]
func (h *StaticContentHandler) Create(c *gin.Context) {
	var req domain.CreateStaticContentRequest
	if !bind(c, &req) {
		return
	}
	detail, err := h.service.Create(c.Request.Context(), middleware.GetViewer(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, detail)
}

// Update handles PUT /api/v1/static-contents/:id
func (h *StaticContentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateStaticContentRequest
	if !bind(c, &req) {
		return
	}
	detail, err := h.service.Update(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, detail)
}

// Patch handles PATCH /api/v1/static-contents/:id
func (h *StaticContentHandler) Patch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.PatchStaticContentRequest
	if !bind(c, &req) {
		return
	}
	detail, err := h.service.Patch(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, detail)
}

// Verify handles POST /api/v1/static-contents/:id/verify/:revisionId
func (h *StaticContentHandler) Verify(c *gin.Context) {
	id, revisionID, ok := verifyParams(c)
	if !ok {
		return
	}
	detail, err := h.service.Verify(c.Request.Context(), id, revisionID)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, detail, nil)
}

// History handles GET /api/v1/static-contents/:id/history
func (h *StaticContentHandler) History(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	details, err := h.service.History(c.Request.Context(), id, c.Query("lang"))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, details, nil)
}

// Unverified handles GET /api/v1/static-contents/unverified
func (h *StaticContentHandler) Unverified(c *gin.Context) {
	p := page(c)
	items, total, err := h.service.ListPending(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, items, total)
}

// Changes handles GET /api/v1/static-contents/:id/changes?from=&to=
func (h *StaticContentHandler) Changes(c *gin.Context) {
	id, from, to, ok := changesParams(c)
	if !ok {
		return
	}
	out, err := h.service.Changes(c.Request.Context(), id, from, to)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, out, nil)
}
