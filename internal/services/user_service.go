package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/storage"
)

// UserService handles profile operations on the authenticated user.
type UserService struct {
	userRepo repositories.UserRepository
	store    storage.MediaStore
	auth     *AuthService
	logger   *zap.SugaredLogger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, store storage.MediaStore,
	auth *AuthService, logger *zap.SugaredLogger) *UserService {
	return &UserService{userRepo: userRepo, store: store, auth: auth, logger: logger}
}

// UpdateAvatar resizes the uploaded file to a 250x250 fill, stores it under
// a per-email object name (overwriting any previous avatar), persists the
// URL and rewrites the session-cache entry.
func (s *UserService) UpdateAvatar(ctx context.Context, user *models.User, data []byte) (*models.User, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnreadableImage
	}
	avatar := imaging.Fill(src, 250, 250, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, avatar, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	publicID := avatarPublicID(user.Email)
	url, err := s.store.Upload(ctx, publicID, buf.Bytes(), "image/png")
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.UpdateAvatar(user.Email, url)
	if err != nil {
		return nil, err
	}
	s.auth.CacheUser(ctx, updated)
	return updated, nil
}

func avatarPublicID(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "photoshare/avatars/" + hex.EncodeToString(sum[:])[:12]
}
