package catalog

import (
	"strings"
	"unicode"
)

// Minimum lengths enforced on create and update.
const (
	minCategoryTitleLen = 3
	minProductNameLen   = 6
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks category fields before persistence.
func (c *Category) Validate() error {
	if len(strings.TrimSpace(c.Title)) < minCategoryTitleLen {
		return &ValidationError{Field: "title", Reason: "must be at least 3 characters"}
	}
	return nil
}

// Validate checks product fields before persistence.
func (p *Product) Validate() error {
	if len(strings.TrimSpace(p.Name)) < minProductNameLen {
		return &ValidationError{Field: "name", Reason: "must be at least 6 characters"}
	}
	if p.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	if p.Inventory < 0 {
		return &ValidationError{Field: "inventory", Reason: "must not be negative"}
	}
	if p.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Reason: "is required"}
	}
	return nil
}

// Validate checks comment fields before persistence.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(c.Body) == "" {
		return &ValidationError{Field: "body", Reason: "is required"}
	}
	return nil
}

// Slugify lowercases the name and replaces runs of non-alphanumeric characters
// with single hyphens. Used to derive product slugs from names on create.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
