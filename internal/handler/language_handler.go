package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// LanguageHandler handles language administration
type LanguageHandler struct {
	service *service.LanguageService
}

// NewLanguageHandler creates a new LanguageHandler
func NewLanguageHandler(s *service.LanguageService) *LanguageHandler {
	return &LanguageHandler{service: s}
}

func views(langs []domain.Language) []domain.LanguageView {
	out := make([]domain.LanguageView, len(langs))
	for i := range langs {
		out[i] = langs[i].View()
	}
	return out
}

// Active handles GET /api/v1/languages
// @Summary Active languages
// @Description Active languages in priority order
// @Tags languages
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.LanguageView}
// @Router /languages [get]
func (h *LanguageHandler) Active(c *gin.Context) {
	langs, err := h.service.Active(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, views(langs), nil)
}

// List handles GET /api/v1/languages/all
func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, langs, nil)
}

// Create handles POST /api/v1/languages
// @Summary Create language
// @Description The new language is active and appended to the priority order
// @Tags languages
// @Accept json
// @Produce json
// @Param request body domain.CreateLanguageRequest true "Language"
// @Success 201 {object} common.APIResponse{data=domain.Language}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /languages [post]
func (h *LanguageHandler) Create(c *gin.Context) {
	var req domain.CreateLanguageRequest
	if !bind(c, &req) {
		return
	}
	lang, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, lang)
}

// Activate handles PUT /api/v1/languages/:code/activate
func (h *LanguageHandler) Activate(c *gin.Context) {
	lang, err := h.service.Activate(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, lang, nil)
}

// Deactivate handles PUT /api/v1/languages/:code/deactivate
func (h *LanguageHandler) Deactivate(c *gin.Context) {
	lang, err := h.service.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, lang, nil)
}

// Reorder handles PUT /api/v1/languages/priorities
func (h *LanguageHandler) Reorder(c *gin.Context) {
	var req domain.UpdatePrioritiesRequest
	if !bind(c, &req) {
		return
	}
	langs, err := h.service.Reorder(c.Request.Context(), req.Codes)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, langs, nil)
}
