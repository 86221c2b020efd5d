package services

import (
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

// TagService handles the standalone tag CRUD surface. Names are lower-cased
// at the repository boundary.
type TagService struct {
	tagRepo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repositories.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// Create inserts a new tag.
func (s *TagService) Create(name string) (*models.Tag, error) {
	tag := &models.Tag{TagName: name}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// GetByID returns one tag.
func (s *TagService) GetByID(id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(id)
}

// GetAll returns all tags.
func (s *TagService) GetAll() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

// Update renames a tag.
func (s *TagService) Update(id uint, name string) (*models.Tag, error) {
	return s.tagRepo.Update(id, name)
}

// DeleteByName removes a tag by its name.
func (s *TagService) DeleteByName(name string) (*models.Tag, error) {
	return s.tagRepo.DeleteByName(name)
}
