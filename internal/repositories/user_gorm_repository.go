package repositories

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"photoshare/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, logger *zap.SugaredLogger) *GORMUserRepository {
	return &GORMUserRepository{db: db, logger: logger}
}

// Create inserts a new user row. When no avatar is set yet, one is derived
// from the email through Gravatar; a failure there is logged and tolerated,
// leaving the avatar null.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.Avatar == nil {
		url, err := gravatarURL(user.Email)
		if err != nil {
			r.logger.Warnw("could not derive avatar", "email", user.Email, "error", err)
		} else {
			user.Avatar = &url
		}
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// UpdateRefreshToken persists a rotation (token set) or a revocation (nil).
func (r *GORMUserRepository) UpdateRefreshToken(user *models.User, token *string) error {
	user.RefreshToken = token
	if err := r.db.Model(user).Update("refresh_token", token).Error; err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// ConfirmEmail marks the user with the given email as confirmed. Callers
// must have resolved the user first; a missing row is reported as ErrNotFound.
func (r *GORMUserRepository) ConfirmEmail(email string) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Update("confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return nil
}

// UpdateAvatar persists the avatar URL and returns the refreshed row.
func (r *GORMUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	user, err := r.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(user).Update("avatar", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar for %s: %w", email, err)
	}
	user.Avatar = &url
	return user, nil
}

// Count returns the total number of user rows. Used only by the signup
// bootstrap role assignment.
func (r *GORMUserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// gravatarURL derives a Gravatar image URL from an email address.
func gravatarURL(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("empty email")
	}
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:])), nil
}
