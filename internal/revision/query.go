package revision

import (
	"context"
	"fmt"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
)

// VisibilityScope is implemented by every Store and used to build list queries
// that combine several facets.
type VisibilityScope interface {
	// ExistsVisible returns an SQL condition that holds when the repository
	// referenced by column has a verified revision that can be shown.
	ExistsVisible(column string) string
}

// ExistsVisible implements VisibilityScope
func (s *Store[T, P]) ExistsVisible(column string) string {
	if !s.facet.Localized {
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s v WHERE v.repository_id = %s AND v.verified_at IS NOT NULL)",
			s.Table(), column)
	}
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s v JOIN %s l ON l.id = v.language_id WHERE v.repository_id = %s AND v.verified_at IS NOT NULL AND l.priority IS NOT NULL)",
		s.Table(), domain.Language{}.TableName(), column)
}

// VisibleRepositoryIDs pages through the repositories that every scope considers visible
func VisibleRepositoryIDs(ctx context.Context, db *gorm.DB, repositoryTable string, page common.Page, scopes ...VisibilityScope) ([]uint64, int64, error) {
	q := db.WithContext(ctx).Table(repositoryTable + " AS repo")
	for _, sc := range scopes {
		q = q.Where(sc.ExistsVisible("repo.id"))
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ids []uint64
	err := q.Order("repo.id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Pluck("repo.id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

// LatestInLanguage selects, under the given alias, the most recently verified revision
// of every repository in exactly one language. There is no fallback to other languages.
func (s *Store[T, P]) LatestInLanguage(ctx context.Context, alias string, languageID uint64) *gorm.DB {
	table := s.Table()
	return s.db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
		Table(fmt.Sprintf("%s AS %s", table, alias)).
		Where(fmt.Sprintf("%s.verified_at IS NOT NULL AND %s.language_id = ?", alias, alias), languageID).
		Where(fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM %[1]s newer WHERE newer.repository_id = %[2]s.repository_id AND newer.language_id = %[2]s.language_id AND newer.verified_at IS NOT NULL AND (newer.verified_at > %[2]s.verified_at OR (newer.verified_at = %[2]s.verified_at AND newer.id > %[2]s.id)))",
			table, alias))
}

// SearchColumns returns the text columns of the facet, if it is searchable
func (s *Store[T, P]) SearchColumns() []string {
	if sr, ok := any(s.model()).(Searchable); ok {
		return sr.SearchColumns()
	}
	return nil
}

// MySQL reads a backslash inside a string literal as an escape, SQLite does not
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// EscapeLike makes text match literally inside a LIKE pattern using likeEscape
func EscapeLike(text string) string {
	return likeEscaper.Replace(text)
}

// ContainsAny builds a case-insensitive literal substring condition over the columns
func ContainsAny(alias string, columns []string, text string) (string, []interface{}) {
	pattern := "%" + EscapeLike(strings.ToLower(text)) + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		conds[i] = fmt.Sprintf("LOWER(%s.%s) LIKE ? ESCAPE '%s'", alias, c, likeEscape)
		args[i] = pattern
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// HasPrefix builds a case-insensitive literal prefix condition on one column
func HasPrefix(alias, column, text string) (string, []interface{}) {
	return fmt.Sprintf("LOWER(%s.%s) LIKE ? ESCAPE '%s'", alias, column, likeEscape),
		[]interface{}{EscapeLike(strings.ToLower(text)) + "%"}
}

// Rows executes a query built on LatestInLanguage and returns the revisions
func (s *Store[T, P]) Rows(q *gorm.DB) ([]P, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return pointers[T, P](rows), nil
}
