package service

import (
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/repository"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkgcache "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/cache"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every content service
type Deps struct {
	DB          *gorm.DB
	Languages   *LanguageService
	Users       repository.UserRepository
	Reports     *repository.ReportRepository
	Attachments *repository.AttachmentRepository
	Cache       pkgcache.Service
	Indexer     Indexer
	Policy      EditPolicy
	// Clock replaces time.Now in revision stores; nil uses the wall clock
	Clock func() time.Time
}

// NewDeps wires the shared collaborators. cache and indexer may be nil.
func NewDeps(db *gorm.DB, cache pkgcache.Service, indexer Indexer, policy EditPolicy) *Deps {
	if cache == nil {
		cache = pkgcache.NewService(nil)
	}
	if indexer == nil {
		indexer = NopIndexer{}
	}
	if policy == nil {
		policy = RolePolicy{}
	}
	d := &Deps{
		DB:          db,
		Users:       repository.NewUserRepository(db),
		Reports:     repository.NewReportRepository(db),
		Attachments: repository.NewAttachmentRepository(db),
		Cache:       cache,
		Indexer:     indexer,
		Policy:      policy,
	}
	d.Languages = NewLanguageService(db, repository.NewLanguageRepository(db), cache, indexer)
	return d
}

func (d *Deps) storeOptions() []revision.Option {
	if d.Clock == nil {
		return nil
	}
	return []revision.Option{revision.WithClock(d.Clock)}
}

// EditPolicy decides who may patch whose revisions and whose edits skip moderation
type EditPolicy interface {
	CanPatch(v domain.Viewer, authorID *uint64) bool
	AutoVerify(v domain.Viewer) bool
}

// RolePolicy lets every signed-in user patch and auto-verifies edits of users with
// at least AutoVerifyRole. The zero value never auto-verifies.
type RolePolicy struct {
	AutoVerifyRole domain.Role
}

func (p RolePolicy) CanPatch(v domain.Viewer, _ *uint64) bool {
	return v.UserID != nil
}

func (p RolePolicy) AutoVerify(v domain.Viewer) bool {
	return p.AutoVerifyRole != "" && v.UserID != nil && v.Role.AtLeast(p.AutoVerifyRole)
}

func (d *Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}
