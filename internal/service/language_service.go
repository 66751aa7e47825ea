package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/repository"
	pkgcache "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/cache"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// LanguageService administers the language registry. Deactivation only flips the
// priority; content in the language disappears from resolution because the
// resolver derives visibility from the registry on every read.
type LanguageService struct {
	db      *gorm.DB
	repo    repository.LanguageRepository
	cache   pkgcache.Service
	indexer Indexer
}

// NewLanguageService creates a new LanguageService
func NewLanguageService(db *gorm.DB, repo repository.LanguageRepository, cache pkgcache.Service, indexer Indexer) *LanguageService {
	return &LanguageService{db: db, repo: repo, cache: cache, indexer: indexer}
}

// Preference is the input of every resolution: the active languages by priority
// and the language the caller asked for, if it is active.
type Preference struct {
	Languages []domain.Language
	Preferred *domain.Language
}

// PreferredID returns the id of the preferred language or nil
func (p Preference) PreferredID() *uint64 {
	if p.Preferred == nil {
		return nil
	}
	id := p.Preferred.ID
	return &id
}

// Code returns the preferred language code or ""
func (p Preference) Code() string {
	if p.Preferred == nil {
		return ""
	}
	return p.Preferred.Code
}

// Create adds a language at the end of the priority order
func (s *LanguageService) Create(ctx context.Context, req *domain.CreateLanguageRequest) (*domain.Language, error) {
	code, err := normalizeCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidRequest)
	}

	var created *domain.Language
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByCode(ctx, code); err == nil {
			return fmt.Errorf("%w: language %q already exists", common.ErrInvalidRequest, code)
		} else if !errors.Is(err, common.ErrLanguageNotFound) {
			return err
		}
		maxPriority, err := repo.MaxPriority(ctx)
		if err != nil {
			return err
		}
		priority := maxPriority + 1
		created = &domain.Language{Code: code, Name: name, IsRTL: req.IsRTL, Priority: &priority}
		return repo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	pkglogger.GetLogger().Info().
		Str("code", code).
		Int("priority", *created.Priority).
		Msg("language created")
	return created, nil
}

// List returns every language, active ones first by priority
func (s *LanguageService) List(ctx context.Context) ([]domain.Language, error) {
	return s.repo.FindAll(ctx)
}

// Active returns the active languages by ascending priority
func (s *LanguageService) Active(ctx context.Context) ([]domain.Language, error) {
	var languages []domain.Language
	if err := s.cache.GetLanguages(ctx, &languages); err == nil {
		return languages, nil
	}
	languages, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetLanguages(ctx, languages); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to cache active languages")
	}
	return languages, nil
}

// ActiveCodes returns the codes of the active languages in priority order
func (s *LanguageService) ActiveCodes(ctx context.Context) ([]string, error) {
	languages, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(languages))
	for i, l := range languages {
		codes[i] = l.Code
	}
	return codes, nil
}

// Activate appends a deactivated language to the end of the priority order
func (s *LanguageService) Activate(ctx context.Context, code string) (*domain.Language, error) {
	var lang *domain.Language
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		lang, err = repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if lang.IsActive() {
			return nil
		}
		maxPriority, err := repo.MaxPriority(ctx)
		if err != nil {
			return err
		}
		priority := maxPriority + 1
		lang.Priority = &priority
		return repo.SetPriority(ctx, lang.ID, lang.Priority)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	pkglogger.GetLogger().Info().Str("code", lang.Code).Msg("language activated")
	return lang, nil
}

// Deactivate removes a language from resolution and search. Its revisions stay.
func (s *LanguageService) Deactivate(ctx context.Context, code string) (*domain.Language, error) {
	lang, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !lang.IsActive() {
		return lang, nil
	}
	if err := s.repo.SetPriority(ctx, lang.ID, nil); err != nil {
		return nil, err
	}
	lang.Priority = nil
	s.invalidate(ctx)
	if err := s.indexer.RemoveLanguage(ctx, lang.Code); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("code", lang.Code).Msg("failed to remove language from search index")
	}

	pkglogger.GetLogger().Info().Str("code", lang.Code).Msg("language deactivated")
	return lang, nil
}

// Reorder assigns priorities 1..n in the given order. codes must name exactly
// the active languages.
func (s *LanguageService) Reorder(ctx context.Context, codes []string) ([]domain.Language, error) {
	var ordered []domain.Language
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		active, err := repo.FindActive(ctx)
		if err != nil {
			return err
		}
		byCode := make(map[string]domain.Language, len(active))
		for _, l := range active {
			byCode[l.Code] = l
		}
		if len(codes) != len(active) {
			return fmt.Errorf("%w: expected %d language codes, got %d", common.ErrInvalidRequest, len(active), len(codes))
		}
		seen := make(map[string]bool, len(codes))
		ordered = make([]domain.Language, 0, len(codes))
		for i, code := range codes {
			l, ok := byCode[code]
			if !ok {
				return fmt.Errorf("%w: %q is not an active language", common.ErrInvalidRequest, code)
			}
			if seen[code] {
				return fmt.Errorf("%w: %q listed twice", common.ErrInvalidRequest, code)
			}
			seen[code] = true
			priority := i + 1
			if err := repo.SetPriority(ctx, l.ID, &priority); err != nil {
				return err
			}
			l.Priority = &priority
			ordered = append(ordered, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	pkglogger.GetLogger().Info().Strs("codes", codes).Msg("language priorities updated")
	return ordered, nil
}

// RequireActive looks up an active language by code. An empty code is an invalid
// request; unknown and deactivated codes are not found.
func (s *LanguageService) RequireActive(ctx context.Context, code string) (*domain.Language, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: language code is required", common.ErrInvalidRequest)
	}
	lang, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !lang.IsActive() {
		return nil, fmt.Errorf("%q: %w", code, common.ErrLanguageInactive)
	}
	return lang, nil
}

// ForEdit is RequireActive for write paths, where every language problem is a
// validation failure
func (s *LanguageService) ForEdit(ctx context.Context, code string) (*domain.Language, error) {
	lang, err := s.RequireActive(ctx, code)
	if errors.Is(err, common.ErrLanguageNotFound) || errors.Is(err, common.ErrLanguageInactive) {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}
	return lang, err
}

// Find returns a language by id, active or not
func (s *LanguageService) Find(ctx context.Context, id uint64) (*domain.Language, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByCode returns a language by code, active or not
func (s *LanguageService) FindByCode(ctx context.Context, code string) (*domain.Language, error) {
	return s.repo.FindByCode(ctx, code)
}

// Preference builds the resolution input. Unknown or inactive preferred codes
// are ignored: the caller then gets the priority fallback.
func (s *LanguageService) Preference(ctx context.Context, code string) (Preference, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return Preference{}, err
	}
	p := Preference{Languages: active}
	for i := range active {
		if active[i].Code == code {
			p.Preferred = &active[i]
			break
		}
	}
	return p, nil
}

// PreferenceFor builds the resolution input for exactly one active language
func (s *LanguageService) PreferenceFor(ctx context.Context, lang *domain.Language) (Preference, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return Preference{}, err
	}
	return Preference{Languages: active, Preferred: lang}, nil
}

func (s *LanguageService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateLanguages(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to invalidate language cache")
	}
	if err := s.cache.InvalidateAllResolved(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to invalidate resolved cache")
	}
}

// normalizeCode validates a BCP 47 tag and returns it lower-cased
func normalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: code is required", common.ErrInvalidRequest)
	}
	if _, err := language.Parse(code); err != nil {
		return "", fmt.Errorf("%w: %q is not a language tag", common.ErrInvalidRequest, code)
	}
	return strings.ToLower(code), nil
}
