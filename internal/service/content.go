package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Page of projected views
type Page struct {
	Items []interface{}
	Total int64
}

type resolveFunc[C any] func(ctx context.Context, repositoryID uint64, pref Preference) (*domain.Resolved[C], error)

// resolveCached serves a resolution from the cache or computes and stores it.
// Errors are never cached.
func resolveCached[C any](ctx context.Context, d *Deps, kind domain.Kind, repositoryID uint64, pref Preference, resolve resolveFunc[C]) (*domain.Resolved[C], error) {
	var cached domain.Resolved[C]
	if err := d.Cache.GetResolved(ctx, string(kind), repositoryID, pref.Code(), &cached); err == nil {
		return &cached, nil
	}
	res, err := resolve(ctx, repositoryID, pref)
	if err != nil {
		return nil, err
	}
	if err := d.Cache.SetResolved(ctx, string(kind), repositoryID, pref.Code(), res); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("kind", string(kind)).Msg("failed to cache resolved repository")
	}
	return res, nil
}

// project renders the view for the viewer. Pending state is only computed for moderators.
func project[C any](ctx context.Context, res *domain.Resolved[C], v domain.Viewer, facets []revision.FacetStore) (interface{}, error) {
	hasPending := false
	if v.IsModerator() {
		for _, f := range facets {
			pending, err := f.HasPending(ctx, res.RepositoryID)
			if err != nil {
				return nil, err
			}
			if pending {
				hasPending = true
				break
			}
		}
	}
	return domain.Project(res, v, hasPending), nil
}

func languageView(l *domain.Language) *domain.LanguageView {
	if l == nil {
		return nil
	}
	v := l.View()
	return &v
}

// listVisible pages through the visible repositories and resolves each of them
func listVisible[C any](ctx context.Context, d *Deps, kind domain.Kind, v domain.Viewer, pref Preference, page common.Page, resolve resolveFunc[C], facets []revision.FacetStore) (*Page, error) {
	ids, total, err := revision.VisibleRepositoryIDs(ctx, d.DB, facets[0].Facet().RepositoryTable, page, scopes(facets)...)
	if err != nil {
		return nil, err
	}
	return resolveAll(ctx, d, kind, v, pref, ids, total, resolve, facets)
}

func resolveAll[C any](ctx context.Context, d *Deps, kind domain.Kind, v domain.Viewer, pref Preference, ids []uint64, total int64, resolve resolveFunc[C], facets []revision.FacetStore) (*Page, error) {
	items := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		res, err := resolveCached(ctx, d, kind, id, pref, resolve)
		if err != nil {
			return nil, err
		}
		view, err := project(ctx, res, v, facets)
		if err != nil {
			return nil, err
		}
		items = append(items, view)
	}
	return &Page{Items: items, Total: total}, nil
}

func scopes(facets []revision.FacetStore) []revision.VisibilityScope {
	out := make([]revision.VisibilityScope, len(facets))
	for i, f := range facets {
		out[i] = f
	}
	return out
}

// history lists every revision of a repository, optionally in one language
func history[T any, P revision.Revision[T]](ctx context.Context, d *Deps, store *revision.Store[T, P], repositoryID uint64, code string) ([]P, error) {
	if err := store.Exists(ctx, repositoryID); err != nil {
		return nil, err
	}
	var f revision.Filter
	if code != "" && store.Facet().Localized {
		lang, err := d.Languages.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		f.LanguageID = &lang.ID
	}
	return store.List(ctx, repositoryID, f)
}

// changes diffs two revisions of one repository
func changes[T any, P revision.Revision[T], C any](ctx context.Context, d *Deps, store *revision.Store[T, P], repositoryID, fromID, toID uint64, diff func(from, to P) C) (*domain.ChangeSet[C], error) {
	from, to, err := store.Pair(ctx, repositoryID, fromID, toID)
	if err != nil {
		return nil, err
	}
	refs, err := d.Users.Lookup(ctx, from.Meta().UserID, to.Meta().UserID)
	if err != nil {
		return nil, err
	}
	cs := &domain.ChangeSet[C]{
		FromRevisionID: fromID,
		ToRevisionID:   toID,
		FromUser:       userRef(refs, from.Meta().UserID),
		ToUser:         userRef(refs, to.Meta().UserID),
		Changes:        diff(from, to),
	}
	if id := from.Meta().LanguageID; id != nil {
		lang, err := d.Languages.Find(ctx, *id)
		if err != nil {
			return nil, err
		}
		cs.Language = languageView(lang)
	}
	return cs, nil
}

func userRef(refs map[uint64]domain.UserRef, id *uint64) *domain.UserRef {
	if id == nil {
		return nil
	}
	ref, ok := refs[*id]
	if !ok {
		return nil
	}
	return &ref
}

// verify runs the moderation transition and drops cached resolutions of the repository
func verify[T any, P revision.Revision[T]](ctx context.Context, d *Deps, store *revision.Store[T, P], repositoryID, revisionID uint64) (P, error) {
	rev, err := store.Verify(ctx, repositoryID, revisionID)
	if err != nil {
		return nil, err
	}
	f := store.Facet()
	d.invalidate(ctx, f.Kind, repositoryID)

	pkglogger.GetLogger().Info().
		Str("kind", string(f.Kind)).
		Str("facet", f.Name).
		Uint64("repository_id", repositoryID).
		Uint64("revision_id", revisionID).
		Msg("revision verified")
	return rev, nil
}

func (d *Deps) invalidate(ctx context.Context, kind domain.Kind, repositoryID uint64) {
	if err := d.Cache.InvalidateRepository(ctx, string(kind), repositoryID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Str("kind", string(kind)).
			Uint64("repository_id", repositoryID).
			Msg("failed to invalidate resolved cache")
	}
}

func requireUser(v domain.Viewer) (*uint64, error) {
	if v.UserID == nil {
		return nil, common.ErrUnauthorized
	}
	id := *v.UserID
	return &id, nil
}

// cascade deletes a repository with every revision of every facet, its tag
// attachments and its reports in one transaction. extra runs inside the same
// transaction before the repository row goes.
func cascade(ctx context.Context, d *Deps, kind domain.Kind, repositoryID uint64, model interface{}, facets []revision.FacetStore, extra func(tx *gorm.DB) error) error {
	log := pkglogger.GetLogger().Info().Str("kind", string(kind)).Uint64("repository_id", repositoryID)
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		primary := facets[0].Bind(tx)
		if err := primary.LockRepository(ctx, repositoryID); err != nil {
			return err
		}
		revisionIDs, err := primary.RevisionIDs(ctx, repositoryID)
		if err != nil {
			return err
		}
		reports, err := d.Reports.WithTx(tx).DeleteByRepository(ctx, kind, repositoryID, revisionIDs)
		if err != nil {
			return err
		}
		attachments, err := d.Attachments.WithTx(tx).DeleteByRepository(ctx, kind, repositoryID)
		if err != nil {
			return err
		}
		log = log.Int64("reports", reports).Int64("tag_attachments", attachments)
		for _, f := range facets {
			n, err := f.Bind(tx).DeleteRepository(ctx, repositoryID)
			if err != nil {
				return err
			}
			log = log.Int64(f.Facet().Name+"_revisions", n)
		}
		if extra != nil {
			if err := extra(tx); err != nil {
				return err
			}
		}
		return tx.Where("id = ?", repositoryID).Delete(model).Error
	})
	if err != nil {
		return err
	}
	d.invalidate(ctx, kind, repositoryID)
	logIndexError(d.Indexer.RemoveRepository(ctx, kind, repositoryID), kind, repositoryID)

	log.Msg("repository deleted")
	return nil
}

// searchQuery validates the search input shared by search and suggest
func searchQuery(ctx context.Context, d *Deps, code, text string) (*domain.Language, string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, "", fmt.Errorf("%w: language code is required", common.ErrInvalidRequest)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", fmt.Errorf("%w: search text is required", common.ErrInvalidRequest)
	}
	lang, err := d.Languages.RequireActive(ctx, code)
	if err != nil {
		return nil, "", err
	}
	return lang, text, nil
}

// search matches the latest verified primary revision in exactly one language,
// plus the titles and keywords of verified attached tags when tagged is set.
// The other facets only have to be visible.
func search[T any, P revision.Revision[T]](ctx context.Context, d *Deps, primary *revision.Store[T, P], others []revision.FacetStore, tags *revision.Store[domain.TagDetail, *domain.TagDetail], lang *domain.Language, text string, page common.Page) ([]uint64, int64, error) {
	const alias = "r"
	cond, args := revision.ContainsAny(alias, primary.SearchColumns(), text)
	match := d.DB.Session(&gorm.Session{NewDB: true}).Where(cond, args...)
	if tags != nil {
		tagCond, tagArgs := revision.ContainsAny("t", tags.SearchColumns(), text)
		matchingTags := tags.LatestInLanguage(ctx, "t", lang.ID).
			Select("t.repository_id").
			Where(tagCond, tagArgs...)
		tagged := d.Attachments.RepositoriesWithTags(ctx, primary.Facet().Kind, matchingTags)
		match = match.Or(alias+".repository_id IN (?)", tagged)
	}

	q := primary.LatestInLanguage(ctx, alias, lang.ID).Where(match)
	for _, f := range others {
		q = q.Where(f.ExistsVisible(alias + ".repository_id"))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ids []uint64
	err := q.Order(alias + ".verified_at DESC, " + alias + ".id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Pluck(alias+".repository_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

// suggest returns title completions from the latest verified revision per repository
// in exactly one language
func suggest[T any, P revision.Revision[T]](ctx context.Context, primary *revision.Store[T, P], others []revision.FacetStore, lang *domain.Language, text string) ([]domain.Suggestion, error) {
	const alias = "r"
	cond, args := revision.HasPrefix(alias, "title", text)
	q := primary.LatestInLanguage(ctx, alias, lang.ID).Where(cond, args...)
	for _, f := range others {
		q = q.Where(f.ExistsVisible(alias + ".repository_id"))
	}
	rows, err := primary.Rows(q.Order(alias + ".title ASC, " + alias + ".id ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Suggestion, 0, len(rows))
	for _, r := range rows {
		s := domain.Suggestion{RepositoryID: r.Meta().RepositoryID}
		if sl, ok := any(r).(revision.Sluggable); ok {
			s.Title = sl.SlugSource()
			s.Slug = sl.GetSlug()
		}
		out = append(out, s)
	}
	return out, nil
}

// documents resolves the repository once per active language and keeps the
// languages that have their own verified revision
func documents[C any](ctx context.Context, d *Deps, kind domain.Kind, repositoryID uint64, resolve resolveFunc[C], build func(res *domain.Resolved[C]) SearchDocument) ([]SearchDocument, error) {
	active, err := d.Languages.Active(ctx)
	if err != nil {
		return nil, err
	}
	var docs []SearchDocument
	for i := range active {
		res, err := resolve(ctx, repositoryID, Preference{Languages: active, Preferred: &active[i]})
		if errors.Is(err, common.ErrNotVisible) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if res.Language == nil || res.Language.Code != active[i].Code {
			continue
		}
		doc := build(res)
		doc.Kind = kind
		doc.RepositoryID = repositoryID
		doc.Language = active[i].Code
		doc.RevisionID = res.Revisions[0].ID
		doc.VerifiedAt = res.Revisions[0].VerifiedAt
		docs = append(docs, doc)
	}
	return docs, nil
}

// authorizePatch applies the edit policy to the author of the patch target.
// Unknown targets pass; Patch reports them.
func authorizePatch[T any, P revision.Revision[T]](ctx context.Context, d *Deps, store *revision.Store[T, P], v domain.Viewer, repositoryID, targetID uint64) error {
	target, err := store.GetInRepository(ctx, repositoryID, targetID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !d.Policy.CanPatch(v, target.Meta().UserID) {
		return common.ErrForbidden
	}
	return nil
}

func logStale(err error, kind domain.Kind, repositoryID, targetID uint64) {
	if errors.Is(err, common.ErrStaleEdit) {
		pkglogger.GetLogger().Warn().
			Str("kind", string(kind)).
			Uint64("repository_id", repositoryID).
			Uint64("target_revision_id", targetID).
			Msg("stale edit rejected")
	}
}

// anonymizer is implemented by every content service
type anonymizer interface {
	facetStores() []revision.FacetStore
}
