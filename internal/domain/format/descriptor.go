package format

// Recognized category tags. The set is open-ended; callers may use any
// string, but these are the ones the shipped cost tables key on.
const (
	CategoryImage        = "image"
	CategoryVideo        = "video"
	CategoryAudio        = "audio"
	CategoryText         = "text"
	CategoryDocument     = "document"
	CategoryVector       = "vector"
	CategoryData         = "data"
	CategoryArchive      = "archive"
	CategorySpreadsheet  = "spreadsheet"
	CategoryPresentation = "presentation"
	CategoryDatabase     = "database"
)

// Descriptor is an immutable record describing one file format as seen by
// one handler. Uniqueness of Format is not assumed globally; identity for
// graph purposes is the normalized MIME.
type Descriptor struct {
	Name       string   `json:"name,omitempty"`
	Format     string   `json:"format,omitempty"`
	Extension  string   `json:"extension,omitempty"`
	MIME       string   `json:"mime"`
	Internal   string   `json:"internal,omitempty"`
	From       bool     `json:"from"`
	To         bool     `json:"to"`
	Lossless   bool     `json:"lossless"`
	Categories []string `json:"categories,omitempty"`
}

// New builds a Descriptor with no categories, normalizing its MIME. Use
// WithCategory to attach a category.
func New(name, formatTag, extension, mime string, from, to bool) Descriptor {
	return Descriptor{
		Name:      name,
		Format:    formatTag,
		Extension: extension,
		MIME:      Normalize(mime),
		From:      from,
		To:        to,
	}
}

// WithCategory returns a copy of d with a single primary category set.
func (d Descriptor) WithCategory(category string) Descriptor {
	d.Categories = []string{category}
	return d
}

// WithCategories returns a copy of d with an ordered category list set
// (first is primary).
func (d Descriptor) WithCategories(categories ...string) Descriptor {
	d.Categories = append([]string(nil), categories...)
	return d
}

// WithLossless returns a copy of d with the lossless flag set.
func (d Descriptor) WithLossless(lossless bool) Descriptor {
	d.Lossless = lossless
	return d
}

// WithInternal returns a copy of d with the handler-private discriminator
// set, distinguishing e.g. PNG from APNG under one MIME.
func (d Descriptor) WithInternal(internal string) Descriptor {
	d.Internal = internal
	return d
}

// PrimaryCategory returns the first declared category, or "" if none.
func (d Descriptor) PrimaryCategory() string {
	if len(d.Categories) == 0 {
		return ""
	}
	return d.Categories[0]
}

// HasCategory reports whether tag appears anywhere in d's category list.
func (d Descriptor) HasCategory(tag string) bool {
	for _, c := range d.Categories {
		if c == tag {
			return true
		}
	}
	return false
}
