package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

func seedImage(t *testing.T, repo repositories.ImageRepository, userID uint, description string) *models.Image {
	t.Helper()
	img := &models.Image{
		UserID:      &userID,
		URL:         "http://media.local/" + description,
		PublicID:    "photoshare/" + description,
		Description: description,
	}
	require.NoError(t, repo.Create(img))
	return img
}

func TestGORMImageRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMImageRepository(db)
	img := seedImage(t, repo, 1, "sunset over lake")

	got, err := repo.GetByID(img.ID)
	require.NoError(t, err)
	assert.Equal(t, "sunset over lake", got.Description)

	updated, err := repo.UpdateDescription(img.ID, "sunrise")
	require.NoError(t, err)
	assert.Equal(t, "sunrise", updated.Description)

	require.NoError(t, repo.Delete(img.ID))
	_, err = repo.GetByID(img.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(img.ID), repositories.ErrNotFound)
}

func TestGORMImageRepository_SearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMImageRepository(db)
	seedImage(t, repo, 1, "Sunset Over Lake")
	seedImage(t, repo, 1, "city at night")

	found, err := repo.GetByDescription("SUNSET")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sunset Over Lake", found[0].Description)

	none, err := repo.GetByDescription("desert")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGORMImageRepository_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMImageRepository(db)
	for i := 0; i < 15; i++ {
		seedImage(t, repo, 1, "photo")
	}

	page, err := repo.GetAll(0, 10)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	rest, err := repo.GetAll(10, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 5)
}

func TestGORMImageRepository_TagsAndQR(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMImageRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	img := seedImage(t, repo, 1, "tagged")

	tag := &models.Tag{TagName: "Nature"}
	require.NoError(t, tagRepo.Create(tag))
	assert.Equal(t, "nature", tag.TagName)
	require.NoError(t, repo.AddTag(img, tag))

	got, err := repo.GetByID(img.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "nature", got.Tags[0].TagName)

	require.NoError(t, repo.SetQRCodeURL(got, "http://media.local/qr.png"))
	got, err = repo.GetByID(img.ID)
	require.NoError(t, err)
	require.NotNil(t, got.QRCodeURL)
	assert.Equal(t, "http://media.local/qr.png", *got.QRCodeURL)
}

func TestGORMTagRepository_DuplicateAndRename(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMTagRepository(db)

	tag := &models.Tag{TagName: "nature"}
	require.NoError(t, repo.Create(tag))
	assert.ErrorIs(t, repo.Create(&models.Tag{TagName: "NATURE"}), repositories.ErrDuplicate)

	renamed, err := repo.Update(tag.ID, "Landscape")
	require.NoError(t, err)
	assert.Equal(t, "landscape", renamed.TagName)

	deleted, err := repo.DeleteByName("landscape")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, deleted.ID)

	_, err = repo.GetByName("landscape")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMCommentRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	imageRepo := repositories.NewGORMImageRepository(db)
	repo := repositories.NewGORMCommentRepository(db)
	img := seedImage(t, imageRepo, 1, "commented")

	comment := &models.Comment{ImageID: img.ID, UserID: 1, Comment: "nice shot"}
	require.NoError(t, repo.Create(comment))

	list, err := repo.GetByImage(img.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := repo.Update(comment.ID, "great shot")
	require.NoError(t, err)
	assert.Equal(t, "great shot", updated.Comment)

	deleted, err := repo.Delete(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, deleted.ID)

	_, err = repo.GetByID(comment.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
