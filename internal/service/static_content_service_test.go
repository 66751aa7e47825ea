package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) createImprint() *domain.StaticContentDetail {
	detail, err := s.static.Create(s.ctx, s.admin, &domain.CreateStaticContentRequest{
		ModerationTitle:  "Imprint",
		Title:            "Legal notice",
		Text:             "Contact: office@example.org",
		RequiredSnippets: []string{"office@example.org"},
		LanguageCode:     "en",
	})
	s.Require().NoError(err)
	return detail
}

func (s *ServiceSuite) TestStaticContentRequiresSnippets() {
	_, err := s.static.Create(s.ctx, s.admin, &domain.CreateStaticContentRequest{
		ModerationTitle:  "Privacy",
		Title:            "Privacy",
		Text:             "We store nothing",
		RequiredSnippets: []string{"GDPR"},
		LanguageCode:     "en",
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	detail := s.createImprint()

	_, err = s.static.Update(s.ctx, s.admin, detail.RepositoryID, &domain.UpdateStaticContentRequest{
		ModerationTitle: "Imprint", Title: "Impressum", Text: "Kontakt per Post", LanguageCode: "de",
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.static.Patch(s.ctx, s.admin, detail.RepositoryID, &domain.PatchStaticContentRequest{
		Text:               domain.Some("no address"),
		IDForDetailToPatch: detail.ID,
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	german, err := s.static.Update(s.ctx, s.admin, detail.RepositoryID, &domain.UpdateStaticContentRequest{
		ModerationTitle: "Imprint", Title: "Impressum", Text: "Kontakt: office@example.org", LanguageCode: "de",
	})
	s.Require().NoError(err)
	s.Nil(german.VerifiedAt)

	_, err = s.static.Update(s.ctx, s.admin, 404, &domain.UpdateStaticContentRequest{
		ModerationTitle: "x", Title: "x", Text: "x", LanguageCode: "en",
	})
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ServiceSuite) TestStaticContentVerifyAndGet() {
	detail := s.createImprint()

	_, err := s.static.Get(s.ctx, domain.Viewer{}, detail.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotVisible)

	verified, err := s.static.Verify(s.ctx, detail.RepositoryID, detail.ID)
	s.Require().NoError(err)
	s.Equal("imprint", verified.Slug)

	view, err := s.static.GetBySlug(s.ctx, domain.Viewer{}, "imprint", "de")
	s.Require().NoError(err)
	public := view.(domain.PublicView[domain.StaticContentContent])
	s.Equal("Legal notice", public.Content.Title)
	s.Equal(domain.StringList{"office@example.org"}, public.Content.RequiredSnippets)
	s.Equal("en", public.Language.Code)

	patched, err := s.static.Patch(s.ctx, s.other, detail.RepositoryID, &domain.PatchStaticContentRequest{
		Title:              domain.Some("Imprint and contact"),
		IDForDetailToPatch: detail.ID,
	})
	s.Require().NoError(err)
	cs, err := s.static.Changes(s.ctx, detail.RepositoryID, detail.ID, patched.ID)
	s.Require().NoError(err)
	s.True(cs.Changes.Title.Changed())
	s.False(cs.Changes.Text.Changed())

	pending, total, err := s.static.ListPending(s.ctx, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(patched.ID, pending[0].ID)
}

func (s *ServiceSuite) TestStaticContentDelete() {
	detail := s.createImprint()
	_, err := s.static.Verify(s.ctx, detail.RepositoryID, detail.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.static.Delete(s.ctx, detail.RepositoryID))
	_, err = s.static.Get(s.ctx, s.admin, detail.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotFound)
	history, err := s.static.History(s.ctx, detail.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotFound)
	s.Nil(history)
}
