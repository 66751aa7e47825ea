package domain

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"
)

// RevisionMeta is embedded in every facet revision table.
// Rows are append-only: only VerifiedAt (once) and UserID (anonymization) are ever updated.
type RevisionMeta struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RepositoryID uint64     `gorm:"column:repository_id;index;not null" json:"repository_id"`
	LanguageID   *uint64    `gorm:"column:language_id;index" json:"language_id,omitempty"`
	// UserID is a non-owning reference to the author; nil once the author is deleted
	UserID     *uint64    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;index" json:"created_at"`
	VerifiedAt *time.Time `gorm:"column:verified_at;index" json:"verified_at,omitempty"`
}

// Meta gives generic code access to the embedded metadata
func (m *RevisionMeta) Meta() *RevisionMeta { return m }

// IsVerified reports whether the revision passed moderation
func (m *RevisionMeta) IsVerified() bool { return m.VerifiedAt != nil }

// RepositoryBase is embedded in every repository table
type RepositoryBase struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Slug is the canonical slug of the most recently verified sluggable revision
	Slug      *string   `gorm:"column:slug;type:varchar(255);index" json:"slug,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// Base gives generic code access to the embedded repository columns
func (r *RepositoryBase) Base() *RepositoryBase { return r }

// StringList is a list of strings stored newline separated in a text column.
// Newlines inside entries are not representable and are replaced with spaces.
type StringList []string

// NormalizeStringList trims entries and drops the ones that end up empty
func NormalizeStringList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(NormalizeStringList(l), "\n"), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	if s == "" {
		*l = StringList{}
		return nil
	}
	*l = StringList(strings.Split(s, "\n"))
	return nil
}

// Equal compares two lists element-wise
func (l StringList) Equal(other StringList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}
