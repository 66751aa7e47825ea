package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// WaypointHandler handles waypoint requests
type WaypointHandler struct {
	readHandler
	searchHandler
	tagHandler
	service *service.WaypointService
}

// NewWaypointHandler creates a new WaypointHandler
func NewWaypointHandler(s *service.WaypointService) *WaypointHandler {
	return &WaypointHandler{
		readHandler:   readHandler{reader: s},
		searchHandler: searchHandler{searcher: s},
		tagHandler:    tagHandler{tagging: s.Tagging},
		service:       s,
	}
}

// Create handles POST /api/v1/waypoints
// @Summary Create waypoint
// @Description Stores a waypoint with its first detail and location revisions
// @Tags waypoints
// @Accept json
// @Produce json
// @Param request body domain.CreateWaypointRequest true "Waypoint"
// @Success 201 {object} common.APIResponse{data=service.WaypointRevisions}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /waypoints [post]
func (h *WaypointHandler) Create(c *gin.Context) {
	var req domain.CreateWaypointRequest
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

// Update handles PUT /api/v1/waypoints/:id
// @Summary Update waypoint
// @Tags waypoints
// @Accept json
// @Produce json
// @Param id path int true "Waypoint ID"
// @Param request body domain.UpdateWaypointRequest true "Waypoint"
// @Success 201 {object} common.APIResponse{data=service.WaypointRevisions}
// @Security BearerAuth
// @Router /waypoints/{id} [put]
func (h *WaypointHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateWaypointRequest
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

// Patch handles PATCH /api/v1/waypoints/:id
// @Summary Patch waypoint
// @Description Merges the given fields into the target revisions. Fails with 409 when a target is not the latest revision.
// @Tags waypoints
// @Accept json
// @Produce json
// @Param id path int true "Waypoint ID"
// @Param request body domain.PatchWaypointRequest true "Fields to change"
// @Success 201 {object} common.APIResponse{data=service.WaypointRevisions}
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /waypoints/{id} [patch]
func (h *WaypointHandler) Patch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.PatchWaypointRequest
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

// Verify handles POST /api/v1/waypoints/:id/verify/:revisionId
func (h *WaypointHandler) Verify(c *gin.Context) {
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

// VerifyLocation handles POST /api/v1/waypoints/:id/verify-location/:revisionId
func (h *WaypointHandler) VerifyLocation(c *gin.Context) {
	id, revisionID, ok := verifyParams(c)
	if !ok {
		return
	}
	location, err := h.service.VerifyLocation(c.Request.Context(), id, revisionID)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, location, nil)
}

// History handles GET /api/v1/waypoints/:id/history
func (h *WaypointHandler) History(c *gin.Context) {
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

// Unverified handles GET /api/v1/waypoints/unverified?facet=
func (h *WaypointHandler) Unverified(c *gin.Context) {
	p := page(c)
	items, total, err := h.service.ListPending(c.Request.Context(), c.Query("facet"), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, items, total)
}

// Changes handles GET /api/v1/waypoints/:id/changes?from=&to=
func (h *WaypointHandler) Changes(c *gin.Context) {
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

// LocationChanges handles GET /api/v1/waypoints/:id/location-changes?from=&to=
func (h *WaypointHandler) LocationChanges(c *gin.Context) {
	id, from, to, ok := changesParams(c)
	if !ok {
		return
	}
	out, err := h.service.LocationChanges(c.Request.Context(), id, from, to)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, out, nil)
}
