package repositories

import "photoshare/internal/models"

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateRefreshToken(user *models.User, token *string) error
	ConfirmEmail(email string) error
	UpdateAvatar(email, url string) (*models.User, error)
	Count() (int64, error)
}
