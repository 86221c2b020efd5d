package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"photoshare/internal/models"
)

// GORMTagRepository is a GORM implementation of TagRepository. Tag names are
// stored lower-cased; every lookup lower-cases its input to match.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// Create inserts a new tag, lower-casing the name.
func (r *GORMTagRepository) Create(tag *models.Tag) error {
	tag.TagName = strings.ToLower(tag.TagName)
	var existing models.Tag
	if err := r.db.First(&existing, "tag_name = ?", tag.TagName).Error; err == nil {
		return fmt.Errorf("tag %s: %w", tag.TagName, ErrDuplicate)
	}
	if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// GetByID retrieves a tag by its ID.
func (r *GORMTagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &tag, nil
}

// GetByName retrieves a tag by its lower-cased name.
func (r *GORMTagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "tag_name = ?", strings.ToLower(name)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("tag %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag %s: %w", name, err)
	}
	return &tag, nil
}

// GetAll retrieves all tags.
func (r *GORMTagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Update renames a tag.
func (r *GORMTagRepository) Update(id uint, name string) (*models.Tag, error) {
	tag, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	name = strings.ToLower(name)
	if err := r.db.Model(tag).Update("tag_name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to update tag %d: %w", id, err)
	}
	tag.TagName = name
	return tag, nil
}

// DeleteByName removes a tag and returns the removed row.
func (r *GORMTagRepository) DeleteByName(name string) (*models.Tag, error) {
	tag, err := r.GetByName(name)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to delete tag %s: %w", name, err)
	}
	return tag, nil
}
