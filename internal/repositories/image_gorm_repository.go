package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"photoshare/internal/models"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{db: db}
}

// Create inserts a new image row.
func (r *GORMImageRepository) Create(image *models.Image) error {
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByID retrieves an image with its tags preloaded.
func (r *GORMImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.Preload("Tags").First(&image, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("image %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}
	return &image, nil
}

// GetByDescription retrieves images whose description contains the given
// text. The match is case-insensitive.
func (r *GORMImageRepository) GetByDescription(description string) ([]models.Image, error) {
	var images []models.Image
	pattern := "%" + strings.ToLower(description) + "%"
	if err := r.db.Preload("Tags").Where("lower(description) LIKE ?", pattern).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}
	return images, nil
}

// GetAll retrieves a page of images.
func (r *GORMImageRepository) GetAll(skip, limit int) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.Preload("Tags").Offset(skip).Limit(limit).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// UpdateDescription sets a new description and returns the refreshed row.
func (r *GORMImageRepository) UpdateDescription(id uint, description string) (*models.Image, error) {
	image, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(image).Update("description", description).Error; err != nil {
		return nil, fmt.Errorf("failed to update image %d: %w", id, err)
	}
	image.Description = description
	return image, nil
}

// Delete removes an image row; comments and join rows cascade.
func (r *GORMImageRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Image{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddTag appends a tag to the image through the join table.
func (r *GORMImageRepository) AddTag(image *models.Image, tag *models.Tag) error {
	if err := r.db.Model(image).Association("Tags").Append(tag); err != nil {
		return fmt.Errorf("failed to tag image %d: %w", image.ID, err)
	}
	return nil
}

// SetQRCodeURL persists the QR share link on the image row.
func (r *GORMImageRepository) SetQRCodeURL(image *models.Image, url string) error {
	if err := r.db.Model(image).Update("qr_url", url).Error; err != nil {
		return fmt.Errorf("failed to set qr url on image %d: %w", image.ID, err)
	}
	image.QRCodeURL = &url
	return nil
}
