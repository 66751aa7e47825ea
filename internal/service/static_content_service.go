package service

import (
	"context"
	"errors"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

var staticContentDetailFacet = revision.Facet{
	Kind:            domain.KindStaticContent,
	Name:            domain.FacetDetail,
	Localized:       true,
	RepositoryTable: domain.StaticContent{}.TableName(),
}

// StaticContentService handles editorial texts. Every revision has to contain
// the snippets fixed when the repository was created.
type StaticContentService struct {
	d       *Deps
	details *revision.Store[domain.StaticContentDetail, *domain.StaticContentDetail]
}

// NewStaticContentService creates a new StaticContentService
func NewStaticContentService(d *Deps) *StaticContentService {
	return &StaticContentService{
		d:       d,
		details: revision.NewStore[domain.StaticContentDetail](d.DB, staticContentDetailFacet, d.storeOptions()...),
	}
}

func (s *StaticContentService) facetStores() []revision.FacetStore {
	return []revision.FacetStore{s.details}
}

func (s *StaticContentService) snippets(ctx context.Context, db *gorm.DB, id uint64) (domain.StringList, error) {
	var sc domain.StaticContent
	if err := db.WithContext(ctx).First(&sc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return sc.RequiredSnippets, nil
}

// Create stores a new static content with its snippets and first revision
func (s *StaticContentService) Create(ctx context.Context, v domain.Viewer, req *domain.CreateStaticContentRequest) (*domain.StaticContentDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	detail := &domain.StaticContentDetail{
		ModerationTitle: req.ModerationTitle,
		Title:           req.Title,
		Text:            req.Text,
	}
	snippets := domain.NormalizeStringList(req.RequiredSnippets)
	if err := detail.CheckSnippets(snippets); err != nil {
		return nil, err
	}

	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sc := &domain.StaticContent{RequiredSnippets: snippets}
		if err := tx.Create(sc).Error; err != nil {
			return err
		}
		detail.RevisionMeta = domain.RevisionMeta{RepositoryID: sc.ID, LanguageID: &lang.ID, UserID: userID}
		detail, err = s.details.WithTx(tx).Create(ctx, detail)
		return err
	})
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("repository_id", detail.RepositoryID).
		Str("language", lang.Code).
		Int("snippets", len(snippets)).
		Msg("static content created")
	return s.autoVerify(ctx, v, detail)
}

func (s *StaticContentService) autoVerify(ctx context.Context, v domain.Viewer, detail *domain.StaticContentDetail) (*domain.StaticContentDetail, error) {
	if !s.d.Policy.AutoVerify(v) {
		return detail, nil
	}
	return s.Verify(ctx, detail.RepositoryID, detail.ID)
}

func (s *StaticContentService) resolve(ctx context.Context, id uint64, pref Preference) (*domain.Resolved[domain.StaticContentContent], error) {
	snippets, err := s.snippets(ctx, s.d.DB, id)
	if err != nil {
		return nil, err
	}
	detail, lang, err := s.details.Resolve(ctx, id, pref.Languages, pref.PreferredID())
	if err != nil {
		return nil, err
	}
	return &domain.Resolved[domain.StaticContentContent]{
		RepositoryID: id,
		Language:     languageView(lang),
		Content: domain.StaticContentContent{
			ModerationTitle:  detail.ModerationTitle,
			Slug:             detail.Slug,
			Title:            detail.Title,
			Text:             detail.Text,
			RequiredSnippets: snippets,
		},
		Revisions: []domain.FacetRevision{
			domain.FacetRevisionOf(domain.FacetDetail, &detail.RevisionMeta),
		},
	}, nil
}

// Resolve returns the visible static content without projection
func (s *StaticContentService) Resolve(ctx context.Context, id uint64, code string) (*domain.Resolved[domain.StaticContentContent], error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return resolveCached(ctx, s.d, domain.KindStaticContent, id, pref, s.resolve)
}

// Get returns the visible static content projected for the viewer
func (s *StaticContentService) Get(ctx context.Context, v domain.Viewer, id uint64, code string) (interface{}, error) {
	res, err := s.Resolve(ctx, id, code)
	if err != nil {
		return nil, err
	}
	return project(ctx, res, v, s.facetStores())
}

// GetBySlug resolves the static content that holds a canonical slug
func (s *StaticContentService) GetBySlug(ctx context.Context, v domain.Viewer, slug, code string) (interface{}, error) {
	rev, err := s.details.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, v, rev.RepositoryID, code)
}

// VisibleRevision returns the id of the detail revision currently shown
func (s *StaticContentService) VisibleRevision(ctx context.Context, id uint64) (uint64, error) {
	res, err := s.Resolve(ctx, id, "")
	if err != nil {
		return 0, err
	}
	return res.Revisions[0].ID, nil
}

// List pages through the visible static contents
func (s *StaticContentService) List(ctx context.Context, v domain.Viewer, code string, page common.Page) (*Page, error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return listVisible(ctx, s.d, domain.KindStaticContent, v, pref, page, s.resolve, s.facetStores())
}

// Update stores a complete new revision in the given language
func (s *StaticContentService) Update(ctx context.Context, v domain.Viewer, id uint64, req *domain.UpdateStaticContentRequest) (*domain.StaticContentDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	snippets, err := s.snippets(ctx, s.d.DB, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.StaticContentDetail{
		RevisionMeta:    domain.RevisionMeta{RepositoryID: id, LanguageID: &lang.ID, UserID: userID},
		ModerationTitle: req.ModerationTitle,
		Title:           req.Title,
		Text:            req.Text,
	}
	if err := detail.CheckSnippets(snippets); err != nil {
		return nil, err
	}
	detail, err = s.details.Append(ctx, detail)
	if err != nil {
		return nil, err
	}
	return s.autoVerify(ctx, v, detail)
}

// Patch merges the given fields into the target revision
func (s *StaticContentService) Patch(ctx context.Context, v domain.Viewer, id uint64, req *domain.PatchStaticContentRequest) (*domain.StaticContentDetail, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	snippets, err := s.snippets(ctx, s.d.DB, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePatch(ctx, s.d, s.details, v, id, req.IDForDetailToPatch); err != nil {
		return nil, err
	}
	detail, err := s.details.Patch(ctx, id, req.IDForDetailToPatch, userID, func(target *domain.StaticContentDetail) (*domain.StaticContentDetail, error) {
		moderationTitle, err := req.ModerationTitle.Apply("moderation_title", target.ModerationTitle)
		if err != nil {
			return nil, err
		}
		title, err := req.Title.Apply("title", target.Title)
		if err != nil {
			return nil, err
		}
		text, err := req.Text.Apply("text", target.Text)
		if err != nil {
			return nil, err
		}
		next := &domain.StaticContentDetail{ModerationTitle: moderationTitle, Title: title, Text: text}
		return next, next.CheckSnippets(snippets)
	})
	if err != nil {
		logStale(err, domain.KindStaticContent, id, req.IDForDetailToPatch)
		return nil, err
	}
	return s.autoVerify(ctx, v, detail)
}

// Verify verifies a revision
func (s *StaticContentService) Verify(ctx context.Context, id, revisionID uint64) (*domain.StaticContentDetail, error) {
	return verify(ctx, s.d, s.details, id, revisionID)
}

// History lists every revision, optionally narrowed to one language
func (s *StaticContentService) History(ctx context.Context, id uint64, code string) ([]*domain.StaticContentDetail, error) {
	return history(ctx, s.d, s.details, id, code)
}

// ListPending pages through unverified revisions
func (s *StaticContentService) ListPending(ctx context.Context, page common.Page) ([]*domain.StaticContentDetail, int64, error) {
	return s.details.ListPending(ctx, page)
}

// Changes diffs two revisions
func (s *StaticContentService) Changes(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.StaticContentChanges], error) {
	return changes(ctx, s.d, s.details, id, fromID, toID, domain.DiffStaticContentDetails)
}

// Delete removes the static content with all revisions and reports
func (s *StaticContentService) Delete(ctx context.Context, id uint64) error {
	return cascade(ctx, s.d, domain.KindStaticContent, id, &domain.StaticContent{}, s.facetStores(), nil)
}
