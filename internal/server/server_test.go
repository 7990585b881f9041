package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"bonds/internal/auth"
	"bonds/internal/config"
	"bonds/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	srv    *Server
	db     *gorm.DB
	redis  *miniredis.Miniredis
	tokens *auth.TokenIssuer
}

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	issuer, err := auth.NewTokenIssuer(privatePEM, publicPEM, 15*time.Minute)
	require.NoError(t, err)
	return issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Env:             "test",
		Port:            "8000",
		AllowedOrigins:  "http://localhost:8000",
		TokenTTLMinutes: 15,
	}

	tokens := newTestIssuer(t)
	srv := NewServerWithDeps(cfg, db, rdb, tokens)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return &testEnv{app: app, srv: srv, db: db, redis: mr, tokens: tokens}
}

// createUser inserts an account directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username, email string) (*models.User, string) {
	t.Helper()

	hashed, err := auth.HashPassword("Sup3rSecret")
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) createPost(t *testing.T, authorID uint, title string) *models.Post {
	t.Helper()

	post := &models.Post{Title: title, Body: "body", UserID: authorID}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func formRequest(method, path string, form url.Values, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func jsonBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"Sup3rSecret1"},
	}

	t.Run("Creates The Account", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/users/regdata", form, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, "alice", body["username"])
		assert.NotZero(t, body["id"])
	})

	t.Run("Duplicate Email Conflicts", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/users/regdata", form, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("Weak Password Is Rejected", func(t *testing.T) {
		weak := url.Values{
			"username": {"bob"},
			"email":    {"bob@example.com"},
			"password": {"short"},
		}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/users/regdata", weak, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "alice@example.com")

	t.Run("Sets The Session Cookie", func(t *testing.T) {
		form := url.Values{"username": {"alice@example.com"}, "password": {"Sup3rSecret"}}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/users/login", form, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, "bearer", body["token_type"])
		assert.NotEmpty(t, body["access_token"])

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == auth.CookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		form := url.Values{"username": {"alice@example.com"}, "password": {"nope"}}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/users/login", form, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", "alice@example.com")

	t.Run("No Token", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/users/protected-route", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Bearer Header", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/users/protected-route", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, "Hello, alice@example.com", body["result"])
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/users/protected-route", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/users/protected-route", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Inactive Account", func(t *testing.T) {
		require.NoError(t, env.db.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("is_active", false).Error)

		req := httptest.NewRequest(fiber.MethodGet, "/users/protected-route", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPostEndpoints(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", "alice@example.com")
	_, bobToken := env.createUser(t, "bob", "bob@example.com")

	t.Run("Create Requires Auth", func(t *testing.T) {
		form := url.Values{"title": {"Hello"}, "content": {"world"}}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/posts/", form, ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Create", func(t *testing.T) {
		form := url.Values{"title": {"Hello"}, "content": {"world"}}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/posts/", form, aliceToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.NotZero(t, body["id"])
	})

	t.Run("Missing Title", func(t *testing.T) {
		form := url.Values{"content": {"world"}}
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/posts/", form, aliceToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("List", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/posts/", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		posts, ok := body["posts"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, posts)
	})

	t.Run("List Filtered By Author", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/posts/?author_id=999", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Malformed ID Gets A JSON 400", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/posts/abc", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

		body := jsonBody(t, resp)
		assert.Equal(t, "Invalid id", body["error"])
	})

	t.Run("Get Missing Post", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/posts/999", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Delete By Non-Owner Is Refused", func(t *testing.T) {
		post := env.createPost(t, alice.ID, "Keep me")
		req := formRequest(fiber.MethodDelete, "/posts/"+itoa(post.ID), nil, bobToken)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, false, body["result"])
	})

	t.Run("Delete By Owner Removes Post And Likes", func(t *testing.T) {
		post := env.createPost(t, alice.ID, "Delete me")
		req := formRequest(fiber.MethodDelete, "/posts/"+itoa(post.ID), nil, aliceToken)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, true, body["result"])

		var count int64
		env.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestLikeEndpoints(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", "alice@example.com")
	_, bobToken := env.createUser(t, "bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "Test")

	path := "/posts/" + itoa(post.ID) + "/likes"

	t.Run("Like Queues A Notification", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, path, nil, bobToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := jsonBody(t, resp)
		result, ok := body["result"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Test", result["title_post"])
		assert.Equal(t, "alice", result["name_user"])
		assert.Equal(t, "alice@example.com", result["email"])
		assert.Equal(t, "bob", result["name_friend"])

		jobs, err := env.redis.List("notifications:likes")
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("Second Like Is A No-Op", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, path, nil, bobToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, "Already liked", body["result"])
	})

	t.Run("Self Like", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, path, nil, aliceToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, "Error User", body["result"])
	})

	t.Run("Missing Post", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodPost, "/posts/999/likes", nil, bobToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Like Count", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("Count For Missing Post", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/posts/999/likes", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Unlike", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodDelete, path, nil, bobToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, true, body["result"])
	})

	t.Run("Unlike Without A Like", func(t *testing.T) {
		resp, err := env.app.Test(formRequest(fiber.MethodDelete, path, nil, bobToken))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body := jsonBody(t, resp)
		assert.Equal(t, false, body["result"])
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
