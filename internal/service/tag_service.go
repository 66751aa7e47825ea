package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

var tagDetailFacet = revision.Facet{
	Kind:            domain.KindTag,
	Name:            domain.FacetDetail,
	Localized:       true,
	RepositoryTable: domain.Tag{}.TableName(),
}

// TagService handles tag business logic
type TagService struct {
	d       *Deps
	details *revision.Store[domain.TagDetail, *domain.TagDetail]
}

// NewTagService creates a new TagService
func NewTagService(d *Deps) *TagService {
	return &TagService{
		d:       d,
		details: revision.NewStore[domain.TagDetail](d.DB, tagDetailFacet, d.storeOptions()...),
	}
}

func (s *TagService) facetStores() []revision.FacetStore {
	return []revision.FacetStore{s.details}
}

// Create stores a new tag with its first, pending detail revision
func (s *TagService) Create(ctx context.Context, v domain.Viewer, req *domain.CreateTagRequest) (*domain.TagDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}

	var detail *domain.TagDetail
	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag := &domain.Tag{}
		if err := tx.Create(tag).Error; err != nil {
			return err
		}
		detail, err = s.details.WithTx(tx).Create(ctx, &domain.TagDetail{
			RevisionMeta: domain.RevisionMeta{RepositoryID: tag.ID, LanguageID: &lang.ID, UserID: userID},
			Title:        req.Title,
			Keywords:     domain.StringList(req.Keywords),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("repository_id", detail.RepositoryID).
		Str("language", lang.Code).
		Msg("tag created")
	return s.autoVerify(ctx, v, detail)
}

func (s *TagService) autoVerify(ctx context.Context, v domain.Viewer, detail *domain.TagDetail) (*domain.TagDetail, error) {
	if !s.d.Policy.AutoVerify(v) {
		return detail, nil
	}
	return s.Verify(ctx, detail.RepositoryID, detail.ID)
}

func (s *TagService) resolve(ctx context.Context, id uint64, pref Preference) (*domain.Resolved[domain.TagContent], error) {
	if err := s.details.Exists(ctx, id); err != nil {
		return nil, err
	}
	detail, lang, err := s.details.Resolve(ctx, id, pref.Languages, pref.PreferredID())
	if err != nil {
		return nil, err
	}
	return &domain.Resolved[domain.TagContent]{
		RepositoryID: id,
		Language:     languageView(lang),
		Content: domain.TagContent{
			Title:    detail.Title,
			Slug:     detail.Slug,
			Keywords: detail.Keywords,
		},
		Revisions: []domain.FacetRevision{domain.FacetRevisionOf(domain.FacetDetail, &detail.RevisionMeta)},
	}, nil
}

// Resolve returns the visible tag without projection
func (s *TagService) Resolve(ctx context.Context, id uint64, code string) (*domain.Resolved[domain.TagContent], error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return resolveCached(ctx, s.d, domain.KindTag, id, pref, s.resolve)
}

// Get returns the visible tag projected for the viewer
func (s *TagService) Get(ctx context.Context, v domain.Viewer, id uint64, code string) (interface{}, error) {
	res, err := s.Resolve(ctx, id, code)
	if err != nil {
		return nil, err
	}
	return project(ctx, res, v, s.facetStores())
}

// GetBySlug resolves the repository that holds a canonical slug
func (s *TagService) GetBySlug(ctx context.Context, v domain.Viewer, slug, code string) (interface{}, error) {
	rev, err := s.details.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, v, rev.RepositoryID, code)
}

// VisibleRevision returns the id of the detail revision currently shown
func (s *TagService) VisibleRevision(ctx context.Context, id uint64) (uint64, error) {
	res, err := s.Resolve(ctx, id, "")
	if err != nil {
		return 0, err
	}
	return res.Revisions[0].ID, nil
}

// List pages through the visible tags
func (s *TagService) List(ctx context.Context, v domain.Viewer, code string, page common.Page) (*Page, error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return listVisible(ctx, s.d, domain.KindTag, v, pref, page, s.resolve, s.facetStores())
}

// Update stores a complete new detail revision, possibly in a new language
func (s *TagService) Update(ctx context.Context, v domain.Viewer, id uint64, req *domain.UpdateTagRequest) (*domain.TagDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	detail, err := s.details.Append(ctx, &domain.TagDetail{
		RevisionMeta: domain.RevisionMeta{RepositoryID: id, LanguageID: &lang.ID, UserID: userID},
		Title:        req.Title,
		Keywords:     domain.StringList(req.Keywords),
	})
	if err != nil {
		return nil, err
	}
	return s.autoVerify(ctx, v, detail)
}

// Patch merges the given fields into the target revision
func (s *TagService) Patch(ctx context.Context, v domain.Viewer, id uint64, req *domain.PatchTagRequest) (*domain.TagDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	if err := authorizePatch(ctx, s.d, s.details, v, id, req.IDForDetailToPatch); err != nil {
		return nil, err
	}
	detail, err := s.details.Patch(ctx, id, req.IDForDetailToPatch, userID, func(target *domain.TagDetail) (*domain.TagDetail, error) {
		title, err := req.Title.Apply("title", target.Title)
		if err != nil {
			return nil, err
		}
		keywords, err := req.Keywords.Apply("keywords", target.Keywords)
		if err != nil {
			return nil, err
		}
		return &domain.TagDetail{Title: title, Keywords: domain.StringList(keywords)}, nil
	})
	if err != nil {
		logStale(err, domain.KindTag, id, req.IDForDetailToPatch)
		return nil, err
	}
	return s.autoVerify(ctx, v, detail)
}

// Verify verifies a detail revision and refreshes the search index
func (s *TagService) Verify(ctx context.Context, id, revisionID uint64) (*domain.TagDetail, error) {
	detail, err := verify(ctx, s.d, s.details, id, revisionID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, id)
	return detail, nil
}

// History lists every detail revision, optionally in one language
func (s *TagService) History(ctx context.Context, id uint64, code string) ([]*domain.TagDetail, error) {
	return history(ctx, s.d, s.details, id, code)
}

// ListPending pages through unverified detail revisions
func (s *TagService) ListPending(ctx context.Context, page common.Page) ([]*domain.TagDetail, int64, error) {
	return s.details.ListPending(ctx, page)
}

// Changes diffs two detail revisions
func (s *TagService) Changes(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.TagDetailChanges], error) {
	return changes(ctx, s.d, s.details, id, fromID, toID, domain.DiffTagDetails)
}

// Delete removes the tag and every attachment of it. Tagged repositories stay.
func (s *TagService) Delete(ctx context.Context, id uint64) error {
	return cascade(ctx, s.d, domain.KindTag, id, &domain.Tag{}, s.facetStores(), func(tx *gorm.DB) error {
		_, err := s.d.Attachments.WithTx(tx).DeleteByTag(ctx, id)
		return err
	})
}

// Search matches title and keywords of the visible tag revision in one language
func (s *TagService) Search(ctx context.Context, v domain.Viewer, code, text string, page common.Page) (*Page, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	ids, total, err := search(ctx, s.d, s.details, nil, nil, lang, text, page)
	if err != nil {
		return nil, err
	}
	pref, err := s.d.Languages.PreferenceFor(ctx, lang)
	if err != nil {
		return nil, err
	}
	return resolveAll(ctx, s.d, domain.KindTag, v, pref, ids, total, s.resolve, s.facetStores())
}

// Suggest completes tag titles in one language
func (s *TagService) Suggest(ctx context.Context, code, text string) ([]domain.Suggestion, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	return suggest(ctx, s.details, nil, lang, text)
}

// RequireVisible fails unless the tag can be shown to the public
func (s *TagService) RequireVisible(ctx context.Context, id uint64) error {
	_, err := s.Resolve(ctx, id, "")
	if errors.Is(err, common.ErrNotVisible) || errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: tag %d is not visible", common.ErrInvalidRequest, id)
	}
	return err
}

// Documents returns the search documents of a tag, one per active language
// with a verified revision
func (s *TagService) Documents(ctx context.Context, id uint64) ([]SearchDocument, error) {
	return documents(ctx, s.d, domain.KindTag, id, s.resolve, func(res *domain.Resolved[domain.TagContent]) SearchDocument {
		return SearchDocument{
			Title:    res.Content.Title,
			Slug:     res.Content.Slug,
			Keywords: res.Content.Keywords,
		}
	})
}

func (s *TagService) reindex(ctx context.Context, id uint64) {
	docs, err := s.Documents(ctx, id)
	if err == nil {
		err = s.d.Indexer.Index(ctx, docs...)
	}
	logIndexError(err, domain.KindTag, id)
}

func (s *TagService) repositoryIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := s.d.DB.WithContext(ctx).Model(&domain.Tag{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
