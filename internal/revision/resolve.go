package revision

import (
	"sort"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

// newer reports whether a was verified after b; the revision id breaks ties
func newer(a, b *domain.RevisionMeta) bool {
	if !a.VerifiedAt.Equal(*b.VerifiedAt) {
		return a.VerifiedAt.After(*b.VerifiedAt)
	}
	return a.ID > b.ID
}

// ActiveByPriority returns the active languages ordered by ascending priority
func ActiveByPriority(languages []domain.Language) []domain.Language {
	active := make([]domain.Language, 0, len(languages))
	for _, l := range languages {
		if l.IsActive() {
			active = append(active, l)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if *active[i].Priority != *active[j].Priority {
			return *active[i].Priority < *active[j].Priority
		}
		return active[i].ID < active[j].ID
	})
	return active
}

// Select picks the revision shown for a repository.
//
// Only verified revisions in active languages are candidates. A preferred language
// wins when it has a candidate; otherwise the most preferred active language with a
// candidate is used. Within a language the most recently verified revision wins.
// Non-localized facets ignore languages entirely. ok is false when nothing is visible.
func Select[T any, P Revision[T]](revisions []P, languages []domain.Language, preferredLanguageID *uint64, localized bool) (selected P, language *domain.Language, ok bool) {
	best := func(match func(m *domain.RevisionMeta) bool) P {
		var winner P
		for _, r := range revisions {
			m := r.Meta()
			if m.VerifiedAt == nil || !match(m) {
				continue
			}
			if winner == nil || newer(m, winner.Meta()) {
				winner = r
			}
		}
		return winner
	}

	if !localized {
		winner := best(func(*domain.RevisionMeta) bool { return true })
		return winner, nil, winner != nil
	}

	active := ActiveByPriority(languages)
	inLanguage := func(id uint64) func(m *domain.RevisionMeta) bool {
		return func(m *domain.RevisionMeta) bool { return m.LanguageID != nil && *m.LanguageID == id }
	}

	if preferredLanguageID != nil {
		for i := range active {
			if active[i].ID != *preferredLanguageID {
				continue
			}
			if winner := best(inLanguage(active[i].ID)); winner != nil {
				return winner, &active[i], true
			}
		}
	}

	for i := range active {
		if winner := best(inLanguage(active[i].ID)); winner != nil {
			return winner, &active[i], true
		}
	}
	return nil, nil, false
}
