package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"photoshare/internal/models"
)

// MockImageRepository is an in-memory implementation of ImageRepository.
type MockImageRepository struct {
	images map[uint]models.Image
	nextID uint
	mu     sync.RWMutex
}

// NewMockImageRepository creates a new instance of MockImageRepository.
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{images: make(map[uint]models.Image), nextID: 1}
}

// Create adds a new image.
func (r *MockImageRepository) Create(image *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == 0 {
		image.ID = r.nextID
		r.nextID++
	}
	r.images[image.ID] = *image
	return nil
}

// GetByID returns an image by its ID.
func (r *MockImageRepository) GetByID(id uint) (*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, ok := r.images[id]
	if !ok {
		return nil, fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	return &image, nil
}

// GetByDescription returns images whose description contains the text.
func (r *MockImageRepository) GetByDescription(description string) ([]models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(description)
	var out []models.Image
	for _, img := range r.images {
		if strings.Contains(strings.ToLower(img.Description), needle) {
			out = append(out, img)
		}
	}
	return out, nil
}

// GetAll returns a page of images ordered by ID.
func (r *MockImageRepository) GetAll(skip, limit int) ([]models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Image, 0, len(r.images))
	for _, img := range r.images {
		all = append(all, img)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// UpdateDescription modifies an existing image's description.
func (r *MockImageRepository) UpdateDescription(id uint, description string) (*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	image, ok := r.images[id]
	if !ok {
		return nil, fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	image.Description = description
	r.images[id] = image
	return &image, nil
}

// Delete removes an image by its ID.
func (r *MockImageRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	delete(r.images, id)
	return nil
}

// AddTag appends a tag to the stored image.
func (r *MockImageRepository) AddTag(image *models.Image, tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.images[image.ID]
	if !ok {
		return fmt.Errorf("image %d: %w", image.ID, ErrNotFound)
	}
	stored.Tags = append(stored.Tags, *tag)
	r.images[image.ID] = stored
	image.Tags = stored.Tags
	return nil
}

// SetQRCodeURL stores the QR link on the image.
func (r *MockImageRepository) SetQRCodeURL(image *models.Image, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.images[image.ID]
	if !ok {
		return fmt.Errorf("image %d: %w", image.ID, ErrNotFound)
	}
	stored.QRCodeURL = &url
	r.images[image.ID] = stored
	image.QRCodeURL = &url
	return nil
}

// MockTagRepository is an in-memory implementation of TagRepository.
type MockTagRepository struct {
	tags   map[string]models.Tag
	nextID uint
	mu     sync.RWMutex
}

// NewMockTagRepository creates a new instance of MockTagRepository.
func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{tags: make(map[string]models.Tag), nextID: 1}
}

// Create adds a new tag, lower-casing the name.
func (r *MockTagRepository) Create(tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag.TagName = strings.ToLower(tag.TagName)
	if _, ok := r.tags[tag.TagName]; ok {
		return fmt.Errorf("tag %s: %w", tag.TagName, ErrDuplicate)
	}
	if tag.ID == 0 {
		tag.ID = r.nextID
		r.nextID++
	}
	r.tags[tag.TagName] = *tag
	return nil
}

// GetByID returns a tag by its ID.
func (r *MockTagRepository) GetByID(id uint) (*models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tag := range r.tags {
		if tag.ID == id {
			t := tag
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
}

// GetByName returns a tag by its lower-cased name.
func (r *MockTagRepository) GetByName(name string) (*models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, ok := r.tags[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", name, ErrNotFound)
	}
	return &tag, nil
}

// GetAll returns all tags.
func (r *MockTagRepository) GetAll() ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update renames an existing tag.
func (r *MockTagRepository) Update(id uint, name string) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, tag := range r.tags {
		if tag.ID == id {
			delete(r.tags, key)
			tag.TagName = strings.ToLower(name)
			r.tags[tag.TagName] = tag
			return &tag, nil
		}
	}
	return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
}

// DeleteByName removes a tag by name.
func (r *MockTagRepository) DeleteByName(name string) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, ok := r.tags[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", name, ErrNotFound)
	}
	delete(r.tags, tag.TagName)
	return &tag, nil
}
