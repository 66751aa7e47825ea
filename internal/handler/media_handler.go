package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles media requests. Uploads happen elsewhere; these
// endpoints receive the resulting file pointer.
type MediaHandler struct {
	readHandler
	searchHandler
	tagHandler
	service *service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(s *service.MediaService) *MediaHandler {
	return &MediaHandler{
		readHandler:   readHandler{reader: s},
		searchHandler: searchHandler{searcher: s},
		tagHandler:    tagHandler{tagging: s.Tagging},
		service:       s,
	}
}

// Create handles POST /api/v1/media
// @Summary Create media
// @Description Stores a media item with its description and file pointer
// @Tags media
// @Accept json
// @Produce json
// @Param request body domain.CreateMediaRequest true "Media"
// @Success 201 {object} common.APIResponse{data=service.MediaRevisions}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /media [post]
func (h *MediaHandler) Create(c *gin.Context) {
	var req domain.CreateMediaRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.Create(c.Request.Context(), middleware.GetViewer(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, out)
}

// Update handles PUT /api/v1/media/:id
func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateMediaRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.Update(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, out)
}

// UpdateFile handles PUT /api/v1/media/:id/file
// @Summary Replace media file
// @Tags media
// @Accept json
// @Produce json
// @Param id path int true "Media ID"
// @Param request body domain.MediaFilePointer true "File pointer"
// @Success 201 {object} common.APIResponse{data=service.MediaRevisions}
// @Security BearerAuth
// @Router /media/{id}/file [put]
func (h *MediaHandler) UpdateFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.MediaFilePointer
	if !bind(c, &req) {
		return
	}
	out, err := h.service.UpdateFile(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, out)
}

// Patch handles PATCH /api/v1/media/:id
func (h *MediaHandler) Patch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.PatchMediaRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.Patch(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, out)
}

// Verify handles POST /api/v1/media/:id/verify/:revisionId
func (h *MediaHandler) Verify(c *gin.Context) {
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

// VerifyFile handles POST /api/v1/media/:id/verify-file/:revisionId
func (h *MediaHandler) VerifyFile(c *gin.Context) {
	id, revisionID, ok := verifyParams(c)
	if !ok {
		return
	}
	file, err := h.service.VerifyFile(c.Request.Context(), id, revisionID)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, file, nil)
}

// History handles GET /api/v1/media/:id/history
func (h *MediaHandler) History(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.service.History(c.Request.Context(), id, c.Query("lang"))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, out, nil)
}

// Unverified handles GET /api/v1/media/unverified?facet=
func (h *MediaHandler) Unverified(c *gin.Context) {
	p := page(c)
	items, total, err := h.service.ListPending(c.Request.Context(), c.Query("facet"), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, items, total)
}

// Changes handles GET /api/v1/media/:id/changes?from=&to=
func (h *MediaHandler) Changes(c *gin.Context) {
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

// FileChanges handles GET /api/v1/media/:id/file-changes?from=&to=
func (h *MediaHandler) FileChanges(c *gin.Context) {
	id, from, to, ok := changesParams(c)
	if !ok {
		return
	}
	out, err := h.service.FileChanges(c.Request.Context(), id, from, to)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, out, nil)
}
