package domain

// FieldChange carries the old value always and the new value only when it differs
type FieldChange[T comparable] struct {
	Old T  `json:"old"`
	New *T `json:"new,omitempty"`
}

// Changed reports whether the field differs between the two revisions
func (c FieldChange[T]) Changed() bool { return c.New != nil }

// Compare builds a FieldChange for comparable values
func Compare[T comparable](old, new T) FieldChange[T] {
	c := FieldChange[T]{Old: old}
	if old != new {
		c.New = &new
	}
	return c
}

// NullableChange is FieldChange for nullable fields, where nil is a legal new value
type NullableChange[T comparable] struct {
	Old     *T   `json:"old"`
	New     *T   `json:"new,omitempty"`
	Changed bool `json:"changed"`
}

// CompareNullable builds a NullableChange
func CompareNullable[T comparable](old, new *T) NullableChange[T] {
	c := NullableChange[T]{Old: old}
	switch {
	case old == nil && new == nil:
	case old == nil || new == nil || *old != *new:
		c.New = new
		c.Changed = true
	}
	return c
}

// ListChange is FieldChange for string lists
type ListChange struct {
	Old StringList `json:"old"`
	New StringList `json:"new,omitempty"`
}

// CompareList builds a ListChange
func CompareList(old, new StringList) ListChange {
	c := ListChange{Old: old}
	if !old.Equal(new) {
		c.New = new
	}
	return c
}

// ChangeSet is the result of comparing two revisions of one facet
type ChangeSet[C any] struct {
	FromRevisionID uint64        `json:"from_revision_id"`
	ToRevisionID   uint64        `json:"to_revision_id"`
	FromUser       *UserRef      `json:"from_user"`
	ToUser         *UserRef      `json:"to_user"`
	Language       *LanguageView `json:"language,omitempty"`
	Changes        C             `json:"changes"`
}
