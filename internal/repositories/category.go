package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"eventtix/internal/models"
)

// CategoryRepository handles category data operations
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(req *models.CategoryCreateRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO categories (name, slug, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, description, created_at`

	category := &models.Category{}
	err := r.db.QueryRow(
		query,
		req.Name,
		req.Slug,
		req.Description,
		time.Now(),
	).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id int) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE id = $1`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a category by name (case-insensitive)
func (r *CategoryRepository) GetByName(name string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE LOWER(name) = LOWER($1)`

	return r.scanOne(r.db.QueryRow(query, name))
}

// GetBySlug retrieves a category by slug
func (r *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE slug = $1`

	return r.scanOne(r.db.QueryRow(query, slug))
}

// List retrieves all categories sorted by name
func (r *CategoryRepository) List() ([]*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) scanOne(row *sql.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}
