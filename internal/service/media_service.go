package service

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	mediaDetailFacet = revision.Facet{
		Kind:            domain.KindMedia,
		Name:            domain.FacetDetail,
		Localized:       true,
		RepositoryTable: domain.Media{}.TableName(),
	}
	mediaFileFacet = revision.Facet{
		Kind:            domain.KindMedia,
		Name:            domain.FacetFile,
		RepositoryTable: domain.Media{}.TableName(),
	}
)

// MediaRevisions are the revisions written by one media edit
type MediaRevisions struct {
	RepositoryID uint64              `json:"repository_id"`
	Detail       *domain.MediaDetail `json:"detail,omitempty"`
	File         *domain.MediaFile   `json:"file,omitempty"`
}

// MediaHistory is the full revision history of a media item
type MediaHistory struct {
	Details []*domain.MediaDetail `json:"details"`
	Files   []*domain.MediaFile   `json:"files"`
}

// MediaService handles media business logic. The binary lives in external
// storage; this service only versions the pointer to it.
type MediaService struct {
	d       *Deps
	details *revision.Store[domain.MediaDetail, *domain.MediaDetail]
	files   *revision.Store[domain.MediaFile, *domain.MediaFile]
	tags    *TagService
	*Tagging
}

// NewMediaService creates a new MediaService
func NewMediaService(d *Deps, tags *TagService) *MediaService {
	s := &MediaService{
		d:       d,
		details: revision.NewStore[domain.MediaDetail](d.DB, mediaDetailFacet, d.storeOptions()...),
		files:   revision.NewStore[domain.MediaFile](d.DB, mediaFileFacet, d.storeOptions()...),
		tags:    tags,
	}
	s.Tagging = newTagging(d, domain.KindMedia, s.details, tags)
	return s
}

func (s *MediaService) facetStores() []revision.FacetStore {
	return []revision.FacetStore{s.details, s.files}
}

// Create stores a new media item with its first detail and file revisions
func (s *MediaService) Create(ctx context.Context, v domain.Viewer, req *domain.CreateMediaRequest) (*MediaRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}

	out := &MediaRevisions{}
	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		media := &domain.Media{}
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		out.RepositoryID = media.ID
		out.Detail, err = s.details.WithTx(tx).Create(ctx, &domain.MediaDetail{
			RevisionMeta: domain.RevisionMeta{RepositoryID: media.ID, LanguageID: &lang.ID, UserID: userID},
			Title:        req.Title,
			DetailText:   req.DetailText,
			Source:       req.Source,
		})
		if err != nil {
			return err
		}
		out.File, err = s.files.WithTx(tx).Create(ctx, &domain.MediaFile{
			RevisionMeta: domain.RevisionMeta{RepositoryID: media.ID, UserID: userID},
			FilePath:     req.File.FilePath,
			FileType:     req.File.FileType,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("repository_id", out.RepositoryID).
		Str("language", lang.Code).
		Str("file_type", string(req.File.FileType)).
		Msg("media created")
	return s.autoVerify(ctx, v, out)
}

func (s *MediaService) autoVerify(ctx context.Context, v domain.Viewer, out *MediaRevisions) (*MediaRevisions, error) {
	if !s.d.Policy.AutoVerify(v) {
		return out, nil
	}
	var err error
	if out.Detail != nil {
		if out.Detail, err = s.Verify(ctx, out.RepositoryID, out.Detail.ID); err != nil {
			return nil, err
		}
	}
	if out.File != nil {
		if out.File, err = s.VerifyFile(ctx, out.RepositoryID, out.File.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *MediaService) resolve(ctx context.Context, id uint64, pref Preference) (*domain.Resolved[domain.MediaContent], error) {
	if err := s.details.Exists(ctx, id); err != nil {
		return nil, err
	}
	detail, lang, err := s.details.Resolve(ctx, id, pref.Languages, pref.PreferredID())
	if err != nil {
		return nil, err
	}
	file, _, err := s.files.Resolve(ctx, id, pref.Languages, nil)
	if err != nil {
		return nil, err
	}
	return &domain.Resolved[domain.MediaContent]{
		RepositoryID: id,
		Language:     languageView(lang),
		Content: domain.MediaContent{
			Title:      detail.Title,
			Slug:       detail.Slug,
			DetailText: detail.DetailText,
			Source:     detail.Source,
			File:       domain.MediaFilePointer{FilePath: file.FilePath, FileType: file.FileType},
		},
		Revisions: []domain.FacetRevision{
			domain.FacetRevisionOf(domain.FacetDetail, &detail.RevisionMeta),
			domain.FacetRevisionOf(domain.FacetFile, &file.RevisionMeta),
		},
	}, nil
}

// Resolve returns the visible media item without projection
func (s *MediaService) Resolve(ctx context.Context, id uint64, code string) (*domain.Resolved[domain.MediaContent], error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return resolveCached(ctx, s.d, domain.KindMedia, id, pref, s.resolve)
}

// Get returns the visible media item projected for the viewer
func (s *MediaService) Get(ctx context.Context, v domain.Viewer, id uint64, code string) (interface{}, error) {
	res, err := s.Resolve(ctx, id, code)
	if err != nil {
		return nil, err
	}
	return project(ctx, res, v, s.facetStores())
}

// GetBySlug resolves the media item that holds a canonical slug
func (s *MediaService) GetBySlug(ctx context.Context, v domain.Viewer, slug, code string) (interface{}, error) {
	rev, err := s.details.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, v, rev.RepositoryID, code)
}

// VisibleRevision returns the id of the detail revision currently shown
func (s *MediaService) VisibleRevision(ctx context.Context, id uint64) (uint64, error) {
	res, err := s.Resolve(ctx, id, "")
	if err != nil {
		return 0, err
	}
	return res.Revisions[0].ID, nil
}

// List pages through the visible media items
func (s *MediaService) List(ctx context.Context, v domain.Viewer, code string, page common.Page) (*Page, error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return listVisible(ctx, s.d, domain.KindMedia, v, pref, page, s.resolve, s.facetStores())
}

// Update stores a complete new detail revision in the given language
func (s *MediaService) Update(ctx context.Context, v domain.Viewer, id uint64, req *domain.UpdateMediaRequest) (*MediaRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	detail, err := s.details.Append(ctx, &domain.MediaDetail{
		RevisionMeta: domain.RevisionMeta{RepositoryID: id, LanguageID: &lang.ID, UserID: userID},
		Title:        req.Title,
		DetailText:   req.DetailText,
		Source:       req.Source,
	})
	if err != nil {
		return nil, err
	}
	return s.autoVerify(ctx, v, &MediaRevisions{RepositoryID: id, Detail: detail})
}

// UpdateFile stores a new file pointer produced by the upload collaborator
func (s *MediaService) UpdateFile(ctx context.Context, v domain.Viewer, id uint64, req *domain.MediaFilePointer) (*MediaRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	file, err := s.files.Append(ctx, &domain.MediaFile{
		RevisionMeta: domain.RevisionMeta{RepositoryID: id, UserID: userID},
		FilePath:     req.FilePath,
		FileType:     req.FileType,
	})
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("repository_id", id).
		Uint64("revision_id", file.ID).
		Msg("media file replaced")
	return s.autoVerify(ctx, v, &MediaRevisions{RepositoryID: id, File: file})
}

// Patch merges the given description fields into the target revision.
// An explicit null clears the source.
func (s *MediaService) Patch(ctx context.Context, v domain.Viewer, id uint64, req *domain.PatchMediaRequest) (*MediaRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	if err := authorizePatch(ctx, s.d, s.details, v, id, req.IDForDetailToPatch); err != nil {
		return nil, err
	}
	detail, err := s.details.Patch(ctx, id, req.IDForDetailToPatch, userID, func(target *domain.MediaDetail) (*domain.MediaDetail, error) {
		title, err := req.Title.Apply("title", target.Title)
		if err != nil {
			return nil, err
		}
		text, err := req.DetailText.Apply("detail_text", target.DetailText)
		if err != nil {
			return nil, err
		}
		return &domain.MediaDetail{
			Title:      title,
			DetailText: text,
			Source:     req.Source.ApplyNullable(target.Source),
		}, nil
	})
	if err != nil {
		logStale(err, domain.KindMedia, id, req.IDForDetailToPatch)
		return nil, err
	}
	return s.autoVerify(ctx, v, &MediaRevisions{RepositoryID: id, Detail: detail})
}

// Verify verifies a detail revision
func (s *MediaService) Verify(ctx context.Context, id, revisionID uint64) (*domain.MediaDetail, error) {
	detail, err := verify(ctx, s.d, s.details, id, revisionID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, id)
	return detail, nil
}

// VerifyFile verifies a file revision
func (s *MediaService) VerifyFile(ctx context.Context, id, revisionID uint64) (*domain.MediaFile, error) {
	file, err := verify(ctx, s.d, s.files, id, revisionID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, id)
	return file, nil
}

// History lists every revision of both facets; code narrows the details
func (s *MediaService) History(ctx context.Context, id uint64, code string) (*MediaHistory, error) {
	details, err := history(ctx, s.d, s.details, id, code)
	if err != nil {
		return nil, err
	}
	files, err := history(ctx, s.d, s.files, id, "")
	if err != nil {
		return nil, err
	}
	return &MediaHistory{Details: details, Files: files}, nil
}

// ListPending pages through unverified revisions of one facet
func (s *MediaService) ListPending(ctx context.Context, facet string, page common.Page) (interface{}, int64, error) {
	switch facet {
	case "", domain.FacetDetail:
		return s.details.ListPending(ctx, page)
	case domain.FacetFile:
		return s.files.ListPending(ctx, page)
	default:
		return nil, 0, fmt.Errorf("%w: unknown facet %q", common.ErrInvalidRequest, facet)
	}
}

// Changes diffs two detail revisions
func (s *MediaService) Changes(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.MediaDetailChanges], error) {
	return changes(ctx, s.d, s.details, id, fromID, toID, domain.DiffMediaDetails)
}

// FileChanges diffs two file revisions
func (s *MediaService) FileChanges(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.MediaFileChanges], error) {
	return changes(ctx, s.d, s.files, id, fromID, toID, domain.DiffMediaFiles)
}

// Delete removes the media item with all revisions, tag attachments and reports.
// Stored binaries are left to the storage collaborator.
func (s *MediaService) Delete(ctx context.Context, id uint64) error {
	return cascade(ctx, s.d, domain.KindMedia, id, &domain.Media{}, s.facetStores(), nil)
}

// Search matches the visible detail in one language and the verified tags
func (s *MediaService) Search(ctx context.Context, v domain.Viewer, code, text string, page common.Page) (*Page, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	ids, total, err := search(ctx, s.d, s.details, []revision.FacetStore{s.files}, s.tags.details, lang, text, page)
	if err != nil {
		return nil, err
	}
	pref, err := s.d.Languages.PreferenceFor(ctx, lang)
	if err != nil {
		return nil, err
	}
	return resolveAll(ctx, s.d, domain.KindMedia, v, pref, ids, total, s.resolve, s.facetStores())
}

// Suggest completes media titles in one language
func (s *MediaService) Suggest(ctx context.Context, code, text string) ([]domain.Suggestion, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	return suggest(ctx, s.details, []revision.FacetStore{s.files}, lang, text)
}

// Documents returns the search documents of a media item
func (s *MediaService) Documents(ctx context.Context, id uint64) ([]SearchDocument, error) {
	return documents(ctx, s.d, domain.KindMedia, id, s.resolve, func(res *domain.Resolved[domain.MediaContent]) SearchDocument {
		return SearchDocument{
			Title: res.Content.Title,
			Slug:  res.Content.Slug,
			Text:  res.Content.DetailText,
		}
	})
}

func (s *MediaService) reindex(ctx context.Context, id uint64) {
	docs, err := s.Documents(ctx, id)
	if err == nil {
		err = s.d.Indexer.Index(ctx, docs...)
	}
	logIndexError(err, domain.KindMedia, id)
}

func (s *MediaService) repositoryIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := s.d.DB.WithContext(ctx).Model(&domain.Media{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
