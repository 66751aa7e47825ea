package handler

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/ginutil"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New()

// fail writes the error envelope; moderators learn when a repository exists but is not visible
func fail(c *gin.Context, err error) {
	common.HandleError(c, err, middleware.GetViewer(c).IsModerator())
}

// bind decodes and validates the JSON body
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err))
		return false
	}
	if err := requestValidator.Struct(req); err != nil {
		fail(c, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err))
		return false
	}
	return true
}

func paramID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamID(c, key)
	if err != nil {
		fail(c, fmt.Errorf("%w: invalid %s", common.ErrInvalidRequest, key))
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.QueryID(c, key)
	if err != nil {
		fail(c, fmt.Errorf("%w: query parameter %s is required", common.ErrInvalidRequest, key))
		return 0, false
	}
	return id, true
}

func page(c *gin.Context) common.Page {
	return common.NewPage(ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "per_page", common.DefaultPerPage))
}

func paged(c *gin.Context, p common.Page, items interface{}, total int64) {
	common.SuccessResponse(c, items, common.NewMeta(p.Number, p.PerPage, total))
}

// contentReader is the read side every content service shares
type contentReader interface {
	Get(ctx context.Context, v domain.Viewer, id uint64, code string) (interface{}, error)
	GetBySlug(ctx context.Context, v domain.Viewer, slug, code string) (interface{}, error)
	List(ctx context.Context, v domain.Viewer, code string, p common.Page) (*service.Page, error)
	Delete(ctx context.Context, id uint64) error
}

// readHandler serves list, detail and delete for one kind
type readHandler struct {
	reader contentReader
}

// List handles GET /api/v1/{kind}
func (h readHandler) List(c *gin.Context) {
	p := page(c)
	res, err := h.reader.List(c.Request.Context(), middleware.GetViewer(c), middleware.GetLanguage(c), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, res.Items, res.Total)
}

// Get handles GET /api/v1/{kind}/:id
func (h readHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.reader.Get(c.Request.Context(), middleware.GetViewer(c), id, middleware.GetLanguage(c))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, view, nil)
}

// GetBySlug handles GET /api/v1/{kind}/find/:slug
func (h readHandler) GetBySlug(c *gin.Context) {
	view, err := h.reader.GetBySlug(c.Request.Context(), middleware.GetViewer(c), c.Param("slug"), middleware.GetLanguage(c))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, view, nil)
}

// Delete handles DELETE /api/v1/{kind}/:id
func (h readHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.reader.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// contentSearcher is implemented by the searchable kinds
type contentSearcher interface {
	Search(ctx context.Context, v domain.Viewer, code, text string, p common.Page) (*service.Page, error)
	Suggest(ctx context.Context, code, text string) ([]domain.Suggestion, error)
}

type searchHandler struct {
	searcher contentSearcher
}

// Search handles GET /api/v1/{kind}/search?lang=&text=
func (h searchHandler) Search(c *gin.Context) {
	p := page(c)
	res, err := h.searcher.Search(c.Request.Context(), middleware.GetViewer(c), middleware.GetLanguage(c), c.Query("text"), p)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, p, res.Items, res.Total)
}

// Suggest handles GET /api/v1/{kind}/suggest?lang=&text=
func (h searchHandler) Suggest(c *gin.Context) {
	res, err := h.searcher.Suggest(c.Request.Context(), middleware.GetLanguage(c), c.Query("text"))
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, res, nil)
}

// tagHandler serves tag attachments of waypoints and media
type tagHandler struct {
	tagging *service.Tagging
}

// Tags handles GET /api/v1/{kind}/:id/tags
func (h tagHandler) Tags(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ids, err := h.tagging.TagIDs(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, ids, nil)
}

// AttachTag handles POST /api/v1/{kind}/:id/tags/:tagId
func (h tagHandler) AttachTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tagId")
	if !ok {
		return
	}
	a, err := h.tagging.AttachTag(c.Request.Context(), middleware.GetViewer(c), id, tagID)
	if err != nil {
		fail(c, err)
		return
	}
	common.CreatedResponse(c, a)
}

// VerifyTag handles POST /api/v1/{kind}/:id/tags/:tagId/verify
func (h tagHandler) VerifyTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tagId")
	if !ok {
		return
	}
	a, err := h.tagging.VerifyTag(c.Request.Context(), id, tagID)
	if err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, a, nil)
}

// DetachTag handles DELETE /api/v1/{kind}/:id/tags/:tagId
func (h tagHandler) DetachTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tagId")
	if !ok {
		return
	}
	if err := h.tagging.DetachTag(c.Request.Context(), id, tagID); err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"detached": tagID}, nil)
}

// verifyParams reads :id and :revisionId
func verifyParams(c *gin.Context) (id, revisionID uint64, ok bool) {
	if id, ok = paramID(c, "id"); !ok {
		return
	}
	revisionID, ok = paramID(c, "revisionId")
	return
}

// changesParams reads :id, ?from= and ?to=
func changesParams(c *gin.Context) (id, from, to uint64, ok bool) {
	if id, ok = paramID(c, "id"); !ok {
		return
	}
	if from, ok = queryID(c, "from"); !ok {
		return
	}
	to, ok = queryID(c, "to")
	return
}
