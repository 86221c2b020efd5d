package repositories

import "photoshare/internal/models"

// ImageRepository defines the data access contract for images and their tags.
type ImageRepository interface {
	Create(image *models.Image) error
	GetByID(id uint) (*models.Image, error)
	GetByDescription(description string) ([]models.Image, error)
	GetAll(skip, limit int) ([]models.Image, error)
	UpdateDescription(id uint, description string) (*models.Image, error)
	Delete(id uint) error
	AddTag(image *models.Image, tag *models.Tag) error
	SetQRCodeURL(image *models.Image, url string) error
}

// TagRepository defines the data access contract for tags.
type TagRepository interface {
	Create(tag *models.Tag) error
	GetByID(id uint) (*models.Tag, error)
	GetByName(name string) (*models.Tag, error)
	GetAll() ([]models.Tag, error)
	Update(id uint, name string) (*models.Tag, error)
	DeleteByName(name string) (*models.Tag, error)
}

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	GetByImage(imageID uint) ([]models.Comment, error)
	Update(id uint, body string) (*models.Comment, error)
	Delete(id uint) (*models.Comment, error)
}
