package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"photoshare/internal/cache"
	"photoshare/internal/config"
	"photoshare/internal/handlers"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/services"
	"photoshare/internal/storage"
)

type testEnv struct {
	app   *fiber.App
	auth  *services.AuthService
	store *storage.MemoryMediaStore
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop().Sugar()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}, &models.Tag{}, &models.Comment{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM image_m2m_tag")
		db.Exec("DELETE FROM comments")
		db.Exec("DELETE FROM images")
		db.Exec("DELETE FROM tags")
		db.Exec("DELETE FROM users")
	})

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	userCache := cache.NewUserCache(redisClient, 300*time.Second, logger)

	store := storage.NewMemoryMediaStore()

	userRepo := repositories.NewGORMUserRepository(db, logger)
	imageRepo := repositories.NewGORMImageRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	auth := services.NewAuthService(userRepo, userCache, "test-secret",
		15*time.Minute, 7*24*time.Hour, 24*time.Hour, logger)
	emailService := services.NewEmailService(nil, auth, config.Config{}, logger)
	userService := services.NewUserService(userRepo, store, auth, logger)
	imageService := services.NewImageService(imageRepo, tagRepo, store, logger)
	tagService := services.NewTagService(tagRepo)
	commentService := services.NewCommentService(commentRepo, imageRepo)

	app := fiber.New()
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(auth)

	handlers.NewAuthHandler(auth, emailService, logger).RegisterRoutes(api)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(api, authRequired)
	handlers.NewImageHandler(imageService, logger).RegisterRoutes(api, authRequired)
	handlers.NewTagHandler(tagService, logger).RegisterRoutes(api, authRequired)
	handlers.NewCommentHandler(commentService, logger).RegisterRoutes(api, authRequired)

	return &testEnv{app: app, auth: auth, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) signup(t *testing.T, username, email string) map[string]interface{} {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret12",
	})
	resp, body := e.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body
}

func (e *testEnv) login(t *testing.T, email string) (string, string) {
	t.Helper()
	form := url.Values{"username": {email}, "password": {"secret12"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := e.do(t, req)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func (e *testEnv) confirm(t *testing.T, email string) {
	t.Helper()
	token, err := e.auth.CreateEmailToken(email)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/"+token, nil)
	resp, body := e.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Email confirmed", body["message"])
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func multipartPNG(t *testing.T, field, description string) (*bytes.Buffer, string) {
	t.Helper()
	img := imaging.New(32, 32, color.NRGBA{R: 10, G: 200, B: 90, A: 255})
	var png bytes.Buffer
	require.NoError(t, imaging.Encode(&png, img, imaging.PNG))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(png.Bytes())
	require.NoError(t, err)
	if description != "" {
		require.NoError(t, w.WriteField("description", description))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSignup(t *testing.T) {
	env := setupEnv(t)

	body := env.signup(t, "agent007", "bond@example.com")
	assert.Equal(t, "Check your email for confirmation", body["detail"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "agent007", user["username"])
	assert.Equal(t, "admin", user["role"])
	// The password hash never leaves the server; the avatar key is always
	// present.
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
	_, hasAvatar := user["avatar"]
	assert.True(t, hasAvatar)

	// Same email again.
	req := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "otherone", "email": "bond@example.com", "password": "secret12",
	})
	resp, dup := env.do(t, req)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Account is already exist", dup["detail"])
}

func TestSignup_InvalidBody(t *testing.T) {
	env := setupEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "agent007", "email": "not-an-email", "password": "secret12",
	})
	resp, _ := env.do(t, req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")

	// Unconfirmed accounts cannot log in.
	form := url.Values{"username": {"bond@example.com"}, "password": {"secret12"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Email not confirmed", body["detail"])

	env.confirm(t, "bond@example.com")

	// Wrong password after confirmation.
	form = url.Values{"username": {"bond@example.com"}, "password": {"wrongpass"}}
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid password", body["detail"])

	access, _ := env.login(t, "bond@example.com")

	req = bearer(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), access)
	resp, me := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent007", me["username"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := setupEnv(t)

	form := url.Values{"username": {"nobody@example.com"}, "password": {"secret12"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email", body["detail"])
}

func TestRefreshRotation(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")
	env.confirm(t, "bond@example.com")
	_, refresh := env.login(t, "bond@example.com")

	time.Sleep(1100 * time.Millisecond)

	req := bearer(httptest.NewRequest(http.MethodGet, "/api/auth/refresh_token", nil), refresh)
	resp, body := env.do(t, req)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	rotated := body["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	// Replaying the superseded token fails and revokes the stored one.
	req = bearer(httptest.NewRequest(http.MethodGet, "/api/auth/refresh_token", nil), refresh)
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid refresh token", body["detail"])

	req = bearer(httptest.NewRequest(http.MethodGet, "/api/auth/refresh_token", nil), rotated)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestConfirmEmail_Idempotent(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")
	env.confirm(t, "bond@example.com")

	token, err := env.auth.CreateEmailToken("bond@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/"+token, nil)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your email is already confirmed", body["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/garbage", nil)
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Invalid token for email verification", body["detail"])
}

func TestRequestEmail(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")

	req := jsonRequest(t, http.MethodPost, "/api/auth/request_email", map[string]string{"email": "bond@example.com"})
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Check your email for confirmation", body["message"])

	env.confirm(t, "bond@example.com")
	req = jsonRequest(t, http.MethodPost, "/api/auth/request_email", map[string]string{"email": "bond@example.com"})
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your email is already confirmed", body["message"])

	// Unknown addresses get the same generic answer.
	req = jsonRequest(t, http.MethodPost, "/api/auth/request_email", map[string]string{"email": "ghost@example.com"})
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Check your email for confirmation", body["message"])
}

func TestAuthRequired(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Could not validate credentials", body["detail"])

	req = bearer(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "garbage")
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGates(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "admin@example.com")
	env.signup(t, "agent008", "mod@example.com")
	env.signup(t, "agent009", "user@example.com")
	for _, email := range []string{"admin@example.com", "mod@example.com", "user@example.com"} {
		env.confirm(t, email)
	}
	adminTok, _ := env.login(t, "admin@example.com")
	modTok, _ := env.login(t, "mod@example.com")
	userTok, _ := env.login(t, "user@example.com")

	// Plain users cannot create tags.
	req := bearer(jsonRequest(t, http.MethodPost, "/api/tags/", map[string]string{"tag_name": "nature"}), userTok)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Operation forbidden", body["detail"])

	// Moderators can.
	req = bearer(jsonRequest(t, http.MethodPost, "/api/tags/", map[string]string{"tag_name": "nature"}), modTok)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Duplicate names conflict.
	req = bearer(jsonRequest(t, http.MethodPost, "/api/tags/", map[string]string{"tag_name": "Nature"}), adminTok)
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Tag already exists", body["detail"])

	// Deleting by name is admin-only.
	req = bearer(httptest.NewRequest(http.MethodDelete, "/api/tags/name/nature", nil), modTok)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = bearer(httptest.NewRequest(http.MethodDelete, "/api/tags/name/nature", nil), adminTok)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestImageLifecycle(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")
	env.confirm(t, "bond@example.com")
	access, _ := env.login(t, "bond@example.com")

	// Upload.
	buf, contentType := multipartPNG(t, "file", "sunset over lake")
	req := bearer(httptest.NewRequest(http.MethodPost, "/api/images/upload", buf), access)
	req.Header.Set("Content-Type", contentType)
	resp, img := env.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	imageID := int(img["id"].(float64))
	assert.Equal(t, "sunset over lake", img["description"])
	assert.Equal(t, 1, env.store.Len())

	// Fetch and search.
	req = bearer(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/images/%d", imageID), nil), access)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = bearer(httptest.NewRequest(http.MethodGet, "/api/images/search?description=sunset", nil), access)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = bearer(httptest.NewRequest(http.MethodGet, "/api/images/search?description=desert", nil), access)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Image not found", body["detail"])

	// Update description.
	req = bearer(jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/images/%d/update", imageID),
		map[string]string{"description": "sunrise"}), access)
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "sunrise", body["description"])

	// Transform creates a second row and object.
	req = bearer(jsonRequest(t, http.MethodPost, "/api/images/black_white",
		map[string]interface{}{"image_id": imageID}), access)
	resp, bw := env.do(t, req)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, imageID, int(bw["id"].(float64)))
	assert.Equal(t, 2, env.store.Len())

	// QR link.
	req = bearer(jsonRequest(t, http.MethodPost, "/api/images/create_qr",
		map[string]interface{}{"image_id": imageID}), access)
	resp, qr := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, qr["qr_code_url"])

	// Delete removes row and object.
	req = bearer(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/images/%d", imageID), nil), access)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = bearer(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/images/%d", imageID), nil), access)
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Image not found", body["detail"])
}

func TestTagLimit(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")
	env.confirm(t, "bond@example.com")
	access, _ := env.login(t, "bond@example.com")

	buf, contentType := multipartPNG(t, "file", "tagged")
	req := bearer(httptest.NewRequest(http.MethodPost, "/api/images/upload", buf), access)
	req.Header.Set("Content-Type", contentType)
	resp, img := env.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	imageID := int(img["id"].(float64))

	for i := 0; i < 5; i++ {
		req = bearer(jsonRequest(t, http.MethodPost, "/api/images/add_tag",
			map[string]interface{}{"image_id": imageID, "tag": fmt.Sprintf("tag%d", i)}), access)
		resp, _ = env.do(t, req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	req = bearer(jsonRequest(t, http.MethodPost, "/api/images/add_tag",
		map[string]interface{}{"image_id": imageID, "tag": "onetoomany"}), access)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Only five tags allowed", body["detail"])
}

func TestComments(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "admin@example.com")
	env.signup(t, "agent008", "mod@example.com")
	env.signup(t, "agent009", "user@example.com")
	for _, email := range []string{"admin@example.com", "mod@example.com", "user@example.com"} {
		env.confirm(t, email)
	}
	modTok, _ := env.login(t, "mod@example.com")
	userTok, _ := env.login(t, "user@example.com")

	buf, contentType := multipartPNG(t, "file", "commented")
	req := bearer(httptest.NewRequest(http.MethodPost, "/api/images/upload", buf), userTok)
	req.Header.Set("Content-Type", contentType)
	resp, img := env.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	imageID := int(img["id"].(float64))

	req = bearer(jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/images/%d/comments", imageID),
		map[string]string{"comment": "nice shot"}), userTok)
	resp, comment := env.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	commentID := int(comment["id"].(float64))

	req = bearer(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/images/%d/comments", imageID), nil), userTok)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The author may edit their own comment.
	req = bearer(jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID),
		map[string]string{"comment": "great shot"}), userTok)
	resp, edited := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "great shot", edited["comment"])

	// Deletion is gated to moderators and admins.
	req = bearer(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil), userTok)
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Operation forbidden", body["detail"])

	req = bearer(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil), modTok)
	resp, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAvatarUpdate(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "agent007", "bond@example.com")
	env.confirm(t, "bond@example.com")
	access, _ := env.login(t, "bond@example.com")

	buf, contentType := multipartPNG(t, "file", "")
	req := bearer(httptest.NewRequest(http.MethodPatch, "/api/users/avatar", buf), access)
	req.Header.Set("Content-Type", contentType)
	resp, body := env.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["avatar"])
	assert.Equal(t, 1, env.store.Len())

	// The cached identity reflects the new avatar immediately.
	req = bearer(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), access)
	resp, me := env.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, body["avatar"], me["avatar"])
}
