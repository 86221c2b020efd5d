package repositories

import (
	"fmt"
	"sync"

	"photoshare/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[string]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]models.User), nextID: 1}
}

// Create adds a new user keyed by email.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.Email] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return &user, nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
}

// UpdateRefreshToken stores (or clears, when nil) the refresh token.
func (r *MockUserRepository) UpdateRefreshToken(user *models.User, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.Email]
	if !ok {
		return fmt.Errorf("user %s: %w", user.Email, ErrNotFound)
	}
	stored.RefreshToken = token
	r.users[user.Email] = stored
	user.RefreshToken = token
	return nil
}

// ConfirmEmail marks the user confirmed.
func (r *MockUserRepository) ConfirmEmail(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[email]
	if !ok {
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	stored.Confirmed = true
	r.users[email] = stored
	return nil
}

// UpdateAvatar stores the avatar URL and returns the updated user.
func (r *MockUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	stored.Avatar = &url
	r.users[email] = stored
	return &stored, nil
}

// Count returns the number of stored users.
func (r *MockUserRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
