package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"photoshare/internal/models"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create inserts a new comment row.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *GORMCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return &comment, nil
}

// GetByImage retrieves all comments under an image.
func (r *GORMCommentRepository) GetByImage(imageID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("image_id = ?", imageID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments for image %d: %w", imageID, err)
	}
	return comments, nil
}

// Update replaces the comment body and returns the refreshed row.
func (r *GORMCommentRepository) Update(id uint, body string) (*models.Comment, error) {
	comment, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(comment).Update("comment", body).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	comment.Comment = body
	return comment, nil
}

// Delete removes a comment and returns the removed row.
func (r *GORMCommentRepository) Delete(id uint) (*models.Comment, error) {
	comment, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return comment, nil
}
