package services

import (
	"photoshare/internal/authz"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// CommentService handles comments under images. Mutation rights are decided
// by authz.Can in one place: update by author or moderator/admin, deletion
// by moderator/admin only.
type CommentService struct {
	commentRepo repositories.CommentRepository
	imageRepo   repositories.ImageRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, imageRepo repositories.ImageRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, imageRepo: imageRepo}
}

// Create adds a comment by the user under the image.
func (s *CommentService) Create(user *models.User, imageID uint, body string) (*models.Comment, error) {
	if _, err := s.imageRepo.GetByID(imageID); err != nil {
		return nil, err
	}
	comment := &models.Comment{ImageID: imageID, UserID: user.ID, Comment: body}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetByImage lists all comments under an image.
func (s *CommentService) GetByImage(imageID uint) ([]models.Comment, error) {
	if _, err := s.imageRepo.GetByID(imageID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByImage(imageID)
}

// Update replaces the comment body.
func (s *CommentService) Update(user *models.User, id uint, body string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(user, authz.ActionUpdate, authz.ResourceComment, comment.UserID) {
		return nil, ErrForbidden
	}
	return s.commentRepo.Update(id, body)
}

// Delete removes the comment.
func (s *CommentService) Delete(user *models.User, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(user, authz.ActionDelete, authz.ResourceComment, comment.UserID) {
		return nil, ErrForbidden
	}
	return s.commentRepo.Delete(id)
}
