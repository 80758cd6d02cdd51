package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Category represents an event category. Categories are created implicitly
// the first time an event references a new category name.
type Category struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CategoryCreateRequest represents the data needed to create a new category
type CategoryCreateRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validate validates the category data
func (c *Category) Validate() error {
	if err := validateCategoryName(c.Name); err != nil {
		return err
	}

	return validateCategorySlug(c.Slug)
}

// ValidateCreate validates category creation data
func (req *CategoryCreateRequest) Validate() error {
	if err := validateCategoryName(req.Name); err != nil {
		return err
	}

	return validateCategorySlug(req.Slug)
}

// validateCategoryName validates a category name
func validateCategoryName(name string) error {
	if name == "" {
		return errors.New("category name is required")
	}

	if len(name) > 100 {
		return errors.New("category name must be less than 100 characters")
	}

	if strings.TrimSpace(name) == "" {
		return errors.New("category name cannot be only whitespace")
	}

	return nil
}

// validateCategorySlug validates a category slug
func validateCategorySlug(slug string) error {
	if slug == "" {
		return errors.New("category slug is required")
	}

	if len(slug) > 100 {
		return errors.New("category slug must be less than 100 characters")
	}

	if !slugRegex.MatchString(slug) {
		return errors.New("category slug can only contain lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return errors.New("category slug cannot start or end with a hyphen")
	}

	return nil
}
