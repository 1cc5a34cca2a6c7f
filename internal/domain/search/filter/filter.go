package filter

import (
	"fmt"
	"time"

	"github.com/pocketmind/pocketmind/internal/domain"
)

// Filters narrows search results after ranking. All fields are optional;
// populated fields combine with AND semantics, and an item must carry every
// listed tag. Date bounds are inclusive and apply to item creation time.
type Filters struct {
	ContentTypes []domain.ContentType
	Tags         []string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// IsEmpty reports whether no filter field is populated.
func (f *Filters) IsEmpty() bool {
	return len(f.ContentTypes) == 0 && len(f.Tags) == 0 && f.DateFrom == nil && f.DateTo == nil
}

// Validate checks field-level consistency.
func (f *Filters) Validate() error {
	for _, ct := range f.ContentTypes {
		if !ct.IsValid() {
			return fmt.Errorf("unknown content type %q", ct)
		}
	}
	for _, t := range f.Tags {
		if t == "" {
			return fmt.Errorf("empty tag in filter")
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return fmt.Errorf("date_from is after date_to")
	}
	return nil
}

// Matches reports whether the item satisfies every populated filter field.
func (f *Filters) Matches(item *domain.Item) bool {
	if len(f.ContentTypes) > 0 && !containsType(f.ContentTypes, item.Type) {
		return false
	}
	for _, t := range f.Tags {
		if !item.HasTag(t) {
			return false
		}
	}
	if f.DateFrom != nil && item.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && item.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func containsType(types []domain.ContentType, t domain.ContentType) bool {
	for _, ct := range types {
		if ct == t {
			return true
		}
	}
	return false
}
