package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) TestLanguageCreateAppendsPriority() {
	lang, err := s.d.Languages.Create(s.ctx, &domain.CreateLanguageRequest{Code: " FR ", Name: "Français"})
	s.Require().NoError(err)
	s.Equal("fr", lang.Code)
	s.Equal(3, *lang.Priority)

	_, err = s.d.Languages.Create(s.ctx, &domain.CreateLanguageRequest{Code: "fr", Name: "Again"})
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.d.Languages.Create(s.ctx, &domain.CreateLanguageRequest{Code: "not a tag!", Name: "Bad"})
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.d.Languages.Create(s.ctx, &domain.CreateLanguageRequest{Code: "it", Name: "  "})
	s.ErrorIs(err, common.ErrInvalidRequest)

	codes, err := s.d.Languages.ActiveCodes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"en", "de", "fr"}, codes)
}

func (s *ServiceSuite) TestLanguageDeactivationHidesContent() {
	out := s.visibleWaypoint("Mauerpark", "de")
	_, ok := s.indexer.get(SearchDocument{Kind: domain.KindWaypoint, RepositoryID: out.RepositoryID, Language: "de"}.DocumentID())
	s.True(ok)

	_, err := s.d.Languages.Deactivate(s.ctx, "de")
	s.Require().NoError(err)

	_, err = s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "de")
	s.ErrorIs(err, common.ErrNotVisible)
	page, err := s.waypoints.List(s.ctx, domain.Viewer{}, "", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Zero(page.Total)
	_, err = s.waypoints.Search(s.ctx, domain.Viewer{}, "de", "mauer", common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrLanguageInactive)
	s.Contains(s.indexer.removed, "de")
	_, ok = s.indexer.get(SearchDocument{Kind: domain.KindWaypoint, RepositoryID: out.RepositoryID, Language: "de"}.DocumentID())
	s.False(ok)

	// editing in a deactivated language is a validation failure
	_, err = s.waypoints.Update(s.ctx, s.author, out.RepositoryID, &domain.UpdateWaypointRequest{
		Title: "x", DetailText: "y", LanguageCode: "de",
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	lang, err := s.d.Languages.Activate(s.ctx, "de")
	s.Require().NoError(err)
	s.Equal(2, *lang.Priority)

	view, err := s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Equal("Mauerpark", view.(domain.PublicView[domain.WaypointContent]).Content.Title)
}

func (s *ServiceSuite) TestLanguageDeactivationIsIdempotent() {
	_, err := s.d.Languages.Deactivate(s.ctx, "de")
	s.Require().NoError(err)
	lang, err := s.d.Languages.Deactivate(s.ctx, "de")
	s.Require().NoError(err)
	s.False(lang.IsActive())

	lang, err = s.d.Languages.Activate(s.ctx, "en")
	s.Require().NoError(err)
	s.Equal(1, *lang.Priority)

	_, err = s.d.Languages.Deactivate(s.ctx, "xx")
	s.ErrorIs(err, common.ErrLanguageNotFound)

	all, err := s.d.Languages.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("en", all[0].Code)
	s.Equal("de", all[1].Code)
}

func (s *ServiceSuite) TestLanguagePriorityDrivesFallback() {
	out, err := s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title: "Museum Island", DetailText: "Five museums",
		Location: domain.Location{Latitude: 52.52, Longitude: 13.39}, LanguageCode: "en",
	})
	s.Require().NoError(err)
	_, err = s.waypoints.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.Require().NoError(err)
	_, err = s.waypoints.VerifyLocation(s.ctx, out.RepositoryID, out.Location.ID)
	s.Require().NoError(err)
	german, err := s.waypoints.Update(s.ctx, s.author, out.RepositoryID, &domain.UpdateWaypointRequest{
		Title: "Museumsinsel", DetailText: "Fünf Museen",
		Location: domain.Location{Latitude: 52.52, Longitude: 13.39}, LanguageCode: "de",
	})
	s.Require().NoError(err)
	_, err = s.waypoints.Verify(s.ctx, out.RepositoryID, german.Detail.ID)
	s.Require().NoError(err)

	title := func(code string) string {
		res, err := s.waypoints.Resolve(s.ctx, out.RepositoryID, code)
		s.Require().NoError(err)
		return res.Content.Title
	}
	s.Equal("Museum Island", title(""))
	s.Equal("Museumsinsel", title("de"))
	// unknown preferred languages fall back to priority order
	s.Equal("Museum Island", title("fr"))

	ordered, err := s.d.Languages.Reorder(s.ctx, []string{"de", "en"})
	s.Require().NoError(err)
	s.Equal("de", ordered[0].Code)
	s.Equal(1, *ordered[0].Priority)
	s.Equal("Museumsinsel", title(""))
	s.Equal("Museum Island", title("en"))
}

func (s *ServiceSuite) TestLanguageReorderValidates() {
	_, err := s.d.Languages.Reorder(s.ctx, []string{"en"})
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.d.Languages.Reorder(s.ctx, []string{"en", "en"})
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.d.Languages.Reorder(s.ctx, []string{"en", "fr"})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.d.Languages.Deactivate(s.ctx, "en")
	s.Require().NoError(err)
	// deactivated languages can not be ordered
	_, err = s.d.Languages.Reorder(s.ctx, []string{"de", "en"})
	s.ErrorIs(err, common.ErrInvalidRequest)
	ordered, err := s.d.Languages.Reorder(s.ctx, []string{"de"})
	s.Require().NoError(err)
	s.Len(ordered, 1)
}

func (s *ServiceSuite) TestRequireActive() {
	_, err := s.d.Languages.RequireActive(s.ctx, "")
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.d.Languages.RequireActive(s.ctx, "xx")
	s.ErrorIs(err, common.ErrLanguageNotFound)
	lang, err := s.d.Languages.RequireActive(s.ctx, "en")
	s.Require().NoError(err)
	s.Equal("English", lang.Name)
}
