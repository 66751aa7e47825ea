package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) createMedia(title string) *MediaRevisions {
	out, err := s.media.Create(s.ctx, s.author, &domain.CreateMediaRequest{
		Title:        title,
		DetailText:   "Photo of " + title,
		Source:       ptr("archive"),
		LanguageCode: "en",
		File:         domain.MediaFilePointer{FilePath: "media/" + title + ".jpg", FileType: domain.MediaFileImage},
	})
	s.Require().NoError(err)
	return out
}

func (s *ServiceSuite) TestMediaRequiresBothFacets() {
	out := s.createMedia("harbour")
	s.Nil(out.Detail.VerifiedAt)
	s.Nil(out.File.LanguageID)

	_, err := s.media.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.Require().NoError(err)
	_, err = s.media.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotVisible)

	_, err = s.media.VerifyFile(s.ctx, out.RepositoryID, out.File.ID)
	s.Require().NoError(err)
	view, err := s.media.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.Require().NoError(err)
	public := view.(domain.PublicView[domain.MediaContent])
	s.Equal("harbour", public.Content.Title)
	s.Equal("archive", *public.Content.Source)
	s.Equal("media/harbour.jpg", public.Content.File.FilePath)

	_, ok := s.indexer.get(SearchDocument{Kind: domain.KindMedia, RepositoryID: out.RepositoryID, Language: "en"}.DocumentID())
	s.True(ok)
}

func (s *ServiceSuite) TestMediaCreateValidatesFile() {
	_, err := s.media.Create(s.ctx, s.author, &domain.CreateMediaRequest{
		Title: "x", DetailText: "y", LanguageCode: "en",
		File: domain.MediaFilePointer{FilePath: "a.bin", FileType: "binary"},
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	var count int64
	s.Require().NoError(s.db.Model(&domain.Media{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ServiceSuite) TestMediaFileReplacementIsModerated() {
	out := s.createMedia("tower")
	_, err := s.media.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.Require().NoError(err)
	_, err = s.media.VerifyFile(s.ctx, out.RepositoryID, out.File.ID)
	s.Require().NoError(err)

	replaced, err := s.media.UpdateFile(s.ctx, s.other, out.RepositoryID, &domain.MediaFilePointer{
		FilePath: "media/tower.mp4", FileType: domain.MediaFileVideo,
	})
	s.Require().NoError(err)
	s.Nil(replaced.Detail)
	s.Nil(replaced.File.VerifiedAt)

	res, err := s.media.Resolve(s.ctx, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Equal("media/tower.jpg", res.Content.File.FilePath)

	pending, total, err := s.media.ListPending(s.ctx, domain.FacetFile, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(pending.([]*domain.MediaFile), 1)

	cs, err := s.media.FileChanges(s.ctx, out.RepositoryID, out.File.ID, replaced.File.ID)
	s.Require().NoError(err)
	s.Equal(domain.MediaFileVideo, *cs.Changes.FileType.New)
	s.Equal("media/tower.mp4", *cs.Changes.FilePath.New)

	_, err = s.media.VerifyFile(s.ctx, out.RepositoryID, replaced.File.ID)
	s.Require().NoError(err)
	res, err = s.media.Resolve(s.ctx, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Equal(domain.MediaFileVideo, res.Content.File.FileType)
}

func (s *ServiceSuite) TestMediaPatchClearsSource() {
	out := s.createMedia("bridge")

	patched, err := s.media.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchMediaRequest{
		Source:             domain.Null[string](),
		IDForDetailToPatch: out.Detail.ID,
	})
	s.Require().NoError(err)
	s.Nil(patched.Detail.Source)
	s.Equal("bridge", patched.Detail.Title)

	cs, err := s.media.Changes(s.ctx, out.RepositoryID, out.Detail.ID, patched.Detail.ID)
	s.Require().NoError(err)
	s.True(cs.Changes.Source.Changed)
	s.Nil(cs.Changes.Source.New)
	s.False(cs.Changes.Title.Changed())

	_, err = s.media.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchMediaRequest{
		DetailText:         domain.Null[string](),
		IDForDetailToPatch: patched.Detail.ID,
	})
	s.ErrorIs(err, common.ErrInvalidRequest)
}

func (s *ServiceSuite) TestMediaSearchAndDelete() {
	out := s.createMedia("lighthouse")
	_, err := s.media.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.Require().NoError(err)
	_, err = s.media.VerifyFile(s.ctx, out.RepositoryID, out.File.ID)
	s.Require().NoError(err)

	page, err := s.media.Search(s.ctx, domain.Viewer{}, "en", "photo", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	suggestions, err := s.media.Suggest(s.ctx, "en", "light")
	s.Require().NoError(err)
	s.Len(suggestions, 1)

	s.Require().NoError(s.media.Delete(s.ctx, out.RepositoryID))
	_, err = s.media.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotFound)
	_, ok := s.indexer.get(SearchDocument{Kind: domain.KindMedia, RepositoryID: out.RepositoryID, Language: "en"}.DocumentID())
	s.False(ok)
}
