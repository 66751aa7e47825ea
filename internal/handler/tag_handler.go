package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// TagHandler handles tag requests
type TagHandler struct {
	readHandler
	searchHandler
	service *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(s *service.TagService) *TagHandler {
	return &TagHandler{
		readHandler:   readHandler{reader: s},
		searchHandler: searchHandler{searcher: s},
		service:       s,
	}
}

// Create handles POST /api/v1/tags
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body domain.CreateTagRequest true "Tag"
// @Success 201 {object} common.APIResponse{data=domain.TagDetail}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req domain.CreateTagRequest
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

// Update handles PUT /api/v1/tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateTagRequest
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

// Patch handles PATCH /api/v1/tags/:id
func (h *TagHandler) Patch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.PatchTagRequest
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

// Verify handles POST /api/v1/tags/:id/verify/:revisionId
func (h *TagHandler) Verify(c *gin.Context) {
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

// History handles GET /api/v1/tags/:id/history
func (h *TagHandler) History(c *gin.Context) {
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

// Unverified handles GET /api/v1/tags/unverified
func (h *TagHandler) Unverified(c *gin.Context) {
	p := page(c)
	items, total, err := h.service.ListPending(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, items, total)
}

// Changes handles GET /api/v1/tags/:id/changes?from=&to=
func (h *TagHandler) Changes(c *gin.Context) {
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
