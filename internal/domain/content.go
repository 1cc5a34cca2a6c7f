package domain

import (
	"strings"
	"time"
)

// ContentType classifies a captured item.
type ContentType string

// Supported content types.
const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentPDF   ContentType = "pdf"
	ContentAudio ContentType = "audio"
)

// IsValid checks if the type is one of the supported values.
func (t ContentType) IsValid() bool {
	return t == ContentText || t == ContentImage || t == ContentPDF || t == ContentAudio
}

// Item is a captured content item as held by the metadata store.
type Item struct {
	ID         string
	UserID     string
	Type       ContentType
	Title      string
	Annotation string
	Source     string
	Tags       []string
	Text       string // extracted text; may be empty for binary content
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ExcerptLength bounds the snippet derived from extracted text.
const ExcerptLength = 200

// Excerpt derives the display snippet: annotation if present, otherwise the
// leading part of the extracted text, otherwise a placeholder naming the type.
func (i *Item) Excerpt() string {
	if a := strings.TrimSpace(i.Annotation); a != "" {
		return a
	}
	if t := strings.TrimSpace(i.Text); t != "" {
		r := []rune(t)
		if len(r) > ExcerptLength {
			return string(r[:ExcerptLength])
		}
		return t
	}
	return "(" + string(i.Type) + " content)"
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagCount is a tag with the number of items carrying it.
type TagCount struct {
	Name  string
	Count int
}
