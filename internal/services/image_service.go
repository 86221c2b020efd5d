package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"photoshare/internal/authz"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/storage"
)

const maxTagsPerImage = 5

// ImageService handles uploads, canned transforms, QR share links and tag
// attachment. Every transform stores a brand-new media object and inserts a
// brand-new image row; originals are never touched.
type ImageService struct {
	imageRepo repositories.ImageRepository
	tagRepo   repositories.TagRepository
	store     storage.MediaStore
	logger    *zap.SugaredLogger
}

// NewImageService creates a new ImageService.
func NewImageService(imageRepo repositories.ImageRepository, tagRepo repositories.TagRepository,
	store storage.MediaStore, logger *zap.SugaredLogger) *ImageService {
	return &ImageService{imageRepo: imageRepo, tagRepo: tagRepo, store: store, logger: logger}
}

// Upload stores the file bytes on the media host and inserts the image row.
func (s *ImageService) Upload(ctx context.Context, user *models.User, description string,
	data []byte, contentType string) (*models.Image, error) {
	publicID := storage.GeneratePublicID(user.Email)
	url, err := s.store.Upload(ctx, publicID, data, contentType)
	if err != nil {
		return nil, err
	}
	img := &models.Image{
		UserID:      &user.ID,
		URL:         url,
		PublicID:    publicID,
		Description: description,
	}
	if err := s.imageRepo.Create(img); err != nil {
		return nil, err
	}
	return img, nil
}

// GetByID returns one image.
func (s *ImageService) GetByID(id uint) (*models.Image, error) {
	return s.imageRepo.GetByID(id)
}

// Search returns images whose description contains the text.
func (s *ImageService) Search(description string) ([]models.Image, error) {
	return s.imageRepo.GetByDescription(description)
}

// GetAll returns a page of images.
func (s *ImageService) GetAll(skip, limit int) ([]models.Image, error) {
	return s.imageRepo.GetAll(skip, limit)
}

// UpdateDescription changes the description; only the owner or an admin may.
func (s *ImageService) UpdateDescription(user *models.User, id uint, description string) (*models.Image, error) {
	img, err := s.imageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(user, authz.ActionUpdate, authz.ResourceImage, ownerOf(img)) {
		return nil, ErrForbidden
	}
	return s.imageRepo.UpdateDescription(id, description)
}

// Delete removes the row and the media object; only the owner or an admin
// may. A media-host failure after the row is gone is logged, not surfaced.
func (s *ImageService) Delete(ctx context.Context, user *models.User, id uint) (*models.Image, error) {
	img, err := s.imageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(user, authz.ActionDelete, authz.ResourceImage, ownerOf(img)) {
		return nil, ErrForbidden
	}
	if err := s.imageRepo.Delete(id); err != nil {
		return nil, err
	}
	if img.PublicID != "" {
		if err := s.store.Delete(ctx, img.PublicID); err != nil {
			s.logger.Warnw("failed to delete media object", "public_id", img.PublicID, "error", err)
		}
	}
	return img, nil
}

// Resize stores a copy of the image scaled to the given width, preserving
// aspect ratio, and inserts it as a new image row.
func (s *ImageService) Resize(ctx context.Context, id uint, width int) (*models.Image, error) {
	return s.transform(ctx, id, func(src image.Image) image.Image {
		return imaging.Resize(src, width, 0, imaging.Lanczos)
	})
}

// BlackWhite stores a grayscale copy as a new image row.
func (s *ImageService) BlackWhite(ctx context.Context, id uint) (*models.Image, error) {
	return s.transform(ctx, id, func(src image.Image) image.Image {
		return imaging.Grayscale(src)
	})
}

// FadeEdges stores a copy whose borders fade to white, as a new image row.
func (s *ImageService) FadeEdges(ctx context.Context, id uint) (*models.Image, error) {
	return s.transform(ctx, id, fadeEdges)
}

func (s *ImageService) transform(ctx context.Context, id uint, fn func(image.Image) image.Image) (*models.Image, error) {
	img, err := s.imageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Download(ctx, img.PublicID)
	if err != nil {
		return nil, err
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %d: %w", id, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fn(src), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode transformed image: %w", err)
	}

	publicID := storage.GeneratePublicID(img.PublicID)
	url, err := s.store.Upload(ctx, publicID, buf.Bytes(), "image/png")
	if err != nil {
		return nil, err
	}
	out := &models.Image{
		UserID:      img.UserID,
		URL:         url,
		PublicID:    publicID,
		Description: img.Description,
	}
	if err := s.imageRepo.Create(out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTag attaches a tag to an image, creating the tag when it does not
// exist yet. Names are lower-cased; an image carries at most five tags and
// a sixth attempt leaves the set unchanged.
func (s *ImageService) AddTag(id uint, tagName string) (*models.Tag, error) {
	img, err := s.imageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(img.Tags) >= maxTagsPerImage {
		return nil, ErrTagLimitReached
	}
	tag, err := s.tagRepo.GetByName(tagName)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		tag = &models.Tag{TagName: tagName}
		if err := s.tagRepo.Create(tag); err != nil {
			return nil, err
		}
	}
	if err := s.imageRepo.AddTag(img, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// CreateQR generates a QR code pointing at the image URL, stores it on the
// media host and persists the link. Calling it again returns the existing
// link without generating anything.
func (s *ImageService) CreateQR(ctx context.Context, id uint) (*models.Image, error) {
	img, err := s.imageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if img.QRCodeURL != nil {
		return img, nil
	}
	png, err := qrcode.Encode(img.URL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	publicID := storage.GenerateQRPublicID()
	url, err := s.store.Upload(ctx, publicID, png, "image/png")
	if err != nil {
		return nil, err
	}
	if err := s.imageRepo.SetQRCodeURL(img, url); err != nil {
		return nil, err
	}
	return img, nil
}

func ownerOf(img *models.Image) uint {
	if img.UserID == nil {
		return 0
	}
	return *img.UserID
}

// fadeEdges blends pixels toward white proportionally to their distance
// from the nearest border, over a band a quarter of the short side wide.
func fadeEdges(src image.Image) image.Image {
	img := imaging.Clone(src)
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	band := w
	if h < w {
		band = h
	}
	band /= 4
	if band == 0 {
		return img
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := minInt(minInt(x, w-1-x), minInt(y, h-1-y))
			if d >= band {
				continue
			}
			factor := float64(d) / float64(band)
			c := img.NRGBAAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: fade(c.R, factor),
				G: fade(c.G, factor),
				B: fade(c.B, factor),
				A: c.A,
			})
		}
	}
	return img
}

func fade(v uint8, factor float64) uint8 {
	return uint8(float64(v)*factor + 255*(1-factor))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
