package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/api"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/config"
	"github.com/lingoscene/lingoscene-api/logging"
	"github.com/lingoscene/lingoscene-api/persistence/persistencetest"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/lingoscene/lingoscene-api/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticAudio map[string]string

func (s staticAudio) AudioURL(_ context.Context, word string) string { return s[word] }

type harness struct {
	t      *testing.T
	app    *fiber.App
	server *api.Server
	users  *service.Users
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.App.Env = config.EnvTest
	cfg.Auth.SigningKey = "test-secret"

	repo := repository.NewManager(persistencetest.NewDB(t))
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenExpiration, cfg.Auth.Issuer, jwt.ClaimStrings(cfg.Auth.Audience), nil)
	auther := auth.NewAuthenticator(service.NewUserProvider(repo.Users(), hasher), tokens)

	users := service.NewUsers(repo, hasher, nil)
	server := api.NewServer(cfg, tokens, api.Services{
		Sessions:   service.NewSessions(auther, repo.Users(), nil),
		Users:      users,
		Themes:     service.NewThemes(repo),
		Objects:    service.NewObjects(repo),
		Vocabulary: service.NewVocabulary(repo, staticAudio{"cup": "https://audio.example.com/cup.mp3"}, nil),
		Progress:   service.NewProgress(repo),
	}, logging.Nop())

	return &harness{t: t, app: server.App(), server: server, users: users}
}

// call sends a request and decodes the JSON response body.
func (h *harness) call(method, path string, body any, token string) (int, map[string]any) {
	h.t.Helper()
	status, raw := h.raw(method, path, body, token)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (h *harness) list(method, path string, token string) (int, []any) {
	h.t.Helper()
	status, raw := h.raw(method, path, nil, token)

	var out []any
	if status < 300 {
		require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (h *harness) raw(method, path string, body any, token string) (int, []byte) {
	h.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(h.t, err)
	return res.StatusCode, data
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	status, body := h.call(http.MethodPost, "/api/v1/auth/login", map[string]any{"email": email, "password": password}, "")
	require.Equal(h.t, http.StatusOK, status, body)
	token, _ := body["access_token"].(string)
	require.NotEmpty(h.t, token)
	return token
}

func (h *harness) admin() string {
	h.t.Helper()
	email, password := "admin@b.com", "Adm1nPass"
	_, err := h.users.Create(context.Background(), &schema.User{Email: &email, Password: &password, Role: ptr("admin")})
	require.NoError(h.t, err)
	return h.login(email, password)
}

func ptr[T any](v T) *T { return &v }

func TestRegisterLoginAndGuards(t *testing.T) {
	h := newHarness(t)
	creds := map[string]any{"email": "a@b.com", "password": "Passw0rd"}

	status, body := h.call(http.MethodPost, "/api/v1/users/register", creds, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "user", body["role"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password_hash")

	status, body = h.call(http.MethodPost, "/api/v1/users/register", creds, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "E409", body["errorCode"])
	assert.Equal(t, "Conflict", body["error"])
	assert.Equal(t, "/api/v1/users/register", body["path"])
	assert.NotEmpty(t, body["timestamp"])

	token := h.login("a@b.com", "Passw0rd")

	status, body = h.call(http.MethodGet, "/api/v1/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "user", body["role"])

	status, body = h.call(http.MethodGet, "/api/v1/auth/admin-only", nil, token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to access this resource", body["message"])
	assert.Equal(t, "E403", body["errorCode"])

	status, body = h.call(http.MethodGet, "/api/v1/auth/admin-only", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "E401", body["errorCode"])
	assert.Equal(t, api.UnauthorizedMessage, body["message"])

	status, body = h.call(http.MethodGet, "/api/v1/auth/admin-only", nil, token+"x")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, api.UnauthorizedMessage, body["message"], "a forged token is indistinguishable from a missing one")

	status, body = h.call(http.MethodGet, "/api/v1/auth/admin-only", nil, h.admin())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Admin access granted", body["message"])

	status, body = h.call(http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "a@b.com", "password": "Wrong1234"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestValidationEnvelope(t *testing.T) {
	h := newHarness(t)

	t.Run("every field reported", func(t *testing.T) {
		status, body := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "nope", "password": "short"}, "")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "E400", body["errorCode"])
		assert.Equal(t, apierr.ValidationMessage, body["message"])

		details, ok := body["details"].(map[string]any)
		require.True(t, ok, body)
		assert.Equal(t, "Invalid email format", details["email"])
		assert.Equal(t, "Password must be at least 8 characters", details["password"])
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		long := "Passw0rd" + strings.Repeat("x", 80)

		status, body := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "long@b.com", "password": long}, "")
		require.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Password must be at most 72 bytes", body["details"].(map[string]any)["password"])

		_, user := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "short@b.com", "password": "Passw0rd"}, "")
		token := h.login("short@b.com", "Passw0rd")

		status, body = h.call(http.MethodPatch, "/api/v1/users/"+user["id"].(string), map[string]any{"password": long}, token)
		require.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Password must be at most 72 bytes", body["details"].(map[string]any)["password"])
	})

	t.Run("validation runs before authentication", func(t *testing.T) {
		status, body := h.call(http.MethodPost, "/api/v1/theme", map[string]any{"difficulty": 9}, "")
		require.Equal(t, http.StatusBadRequest, status)
		details := body["details"].(map[string]any)
		assert.Contains(t, details, "name")
		assert.Equal(t, "Theme difficulty must be between 1 and 5", details["difficulty"])
	})

	t.Run("malformed body", func(t *testing.T) {
		status, body := h.call(http.MethodPost, "/api/v1/auth/login", "[1,2]", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Malformed JSON body", body["message"])
	})

	t.Run("path params", func(t *testing.T) {
		status, body := h.call(http.MethodGet, "/api/v1/objects/abc", nil, "")
		require.Equal(t, http.StatusBadRequest, status)
		details := body["details"].(map[string]any)
		params := details["params"].(map[string]any)
		assert.Equal(t, "must be a positive integer", params["id"])
	})

	t.Run("query params", func(t *testing.T) {
		status, body := h.call(http.MethodGet, "/api/v1/objects?themeId=x", nil, "")
		require.Equal(t, http.StatusBadRequest, status)
		query := body["details"].(map[string]any)["query"].(map[string]any)
		assert.Contains(t, query, "themeId")
	})

	t.Run("unknown route", func(t *testing.T) {
		status, body := h.call(http.MethodGet, "/api/v1/nothing-here", nil, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "E404", body["errorCode"])
		assert.Equal(t, "NotFound", body["error"])
	})
}

func TestSceneRoutes(t *testing.T) {
	h := newHarness(t)
	admin := h.admin()

	status, body := h.call(http.MethodPatch, "/api/v1/theme/999", map[string]any{"isLocked": true}, admin)
	assert.Equal(t, "E404", body["errorCode"])
	assert.Equal(t, http.StatusNotFound, status)

	status, theme := h.call(http.MethodPost, "/api/v1/theme", map[string]any{"name": "Kitchen", "difficulty": 1}, admin)
	require.Equal(t, http.StatusCreated, status, theme)
	assert.Equal(t, false, theme["isLocked"])
	themeID := int(theme["id"].(float64))

	status, body = h.call(http.MethodPost, "/api/v1/theme", map[string]any{"name": "Kitchen", "difficulty": 2}, admin)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Theme with this name already exists", body["message"])

	status, object := h.call(http.MethodPost, "/api/v1/objects", map[string]any{
		"name": "Cup", "objectIdentifier": "cup_01", "themeId": themeID,
	}, admin)
	require.Equal(t, http.StatusCreated, status, object)
	assert.Equal(t, "click", object["interactionType"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 1.0, "z": 1.0}, object["scale"])
	objectID := int(object["id"].(float64))

	status, body = h.call(http.MethodPost, "/api/v1/objects", map[string]any{
		"name": "Ghost", "objectIdentifier": "g", "themeId": 999,
	}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "E422", body["errorCode"])

	status, list := h.list(http.MethodGet, "/api/v1/objects?themeId="+itoa(themeID), "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)

	path := "/api/v1/vocabulary/object/" + itoa(objectID)
	status, body = h.call(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No vocabularies found for object "+itoa(objectID), body["message"])

	status, word := h.call(http.MethodPost, path, map[string]any{
		"englishWord": "  cup ", "vietnameseTranslation": "cái cốc", "pronunciation": "/kʌp/", "objectId": 999,
	}, admin)
	require.Equal(t, http.StatusCreated, status, word)
	assert.Equal(t, "cup", word["englishWord"])
	assert.Equal(t, float64(objectID), word["objectId"], "the path wins over the body")
	assert.Equal(t, "https://audio.example.com/cup.mp3", word["audioUrl"])
	assert.Equal(t, []any{}, word["examples"])
	wordID := int(word["id"].(float64))

	status, list = h.list(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)

	status, body = h.call(http.MethodPatch, "/api/v1/vocabulary/object/999/vocabulary/"+itoa(wordID), map[string]any{"pronunciation": "/kap/"}, admin)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Vocabulary with ID "+itoa(wordID)+" for object 999 not found", body["message"])

	t.Run("progress", func(t *testing.T) {
		status, _ := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "learner@b.com", "password": "Passw0rd"}, "")
		require.Equal(t, http.StatusCreated, status)
		learner := h.login("learner@b.com", "Passw0rd")

		status, entry := h.call(http.MethodPut, "/api/v1/progress/"+itoa(wordID), map[string]any{"learned": true, "proficiency": 60}, learner)
		require.Equal(t, http.StatusOK, status, entry)
		assert.Equal(t, true, entry["learned"])
		assert.Equal(t, 60.0, entry["proficiency"])

		status, body := h.call(http.MethodPut, "/api/v1/progress/"+itoa(wordID), map[string]any{"proficiency": 101}, learner)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Proficiency must be between 0 and 100", body["details"].(map[string]any)["proficiency"])

		status, _ = h.call(http.MethodPut, "/api/v1/progress/999", map[string]any{"learned": true}, learner)
		assert.Equal(t, http.StatusNotFound, status)

		status, entries := h.list(http.MethodGet, "/api/v1/progress", learner)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, entries, 1)
	})

	status, _ = h.call(http.MethodDelete, "/api/v1/theme/"+itoa(themeID), nil, admin)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.call(http.MethodGet, "/api/v1/objects/"+itoa(objectID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserRoutes(t *testing.T) {
	h := newHarness(t)
	admin := h.admin()

	_, alice := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "alice@b.com", "password": "Passw0rd"}, "")
	_, bob := h.call(http.MethodPost, "/api/v1/users/register", map[string]any{"email": "bob@b.com", "password": "Passw0rd", "role": "admin"}, "")
	assert.Equal(t, "user", bob["role"], "public registration never grants admin")

	aliceToken := h.login("alice@b.com", "Passw0rd")

	status, _ := h.call(http.MethodPatch, "/api/v1/users/"+bob["id"].(string), map[string]any{"name": "Mallory"}, aliceToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := h.call(http.MethodPatch, "/api/v1/users/"+alice["id"].(string), map[string]any{"name": "Alice"}, aliceToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Alice", body["name"])

	status, _ = h.call(http.MethodGet, "/api/v1/users", nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, users := h.list(http.MethodGet, "/api/v1/users", admin)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 3)

	status, _ = h.call(http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000001", nil, admin)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = h.call(http.MethodGet, "/api/v1/users/not-a-uuid", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "must be a valid UUID", body["details"].(map[string]any)["params"].(map[string]any)["uuid"])

	status, _ = h.call(http.MethodDelete, "/api/v1/users/"+bob["id"].(string), nil, admin)
	assert.Equal(t, http.StatusOK, status)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		stack       bool
		wantStatus  int
		wantMessage string
	}{
		{"unexpected error is sanitized", errors.New("db exploded"), false, 500, apierr.InternalMessage},
		{"token error", auth.ErrTokenExpired, false, 401, api.UnauthorizedMessage},
		{"forbidden sentinel", auth.ErrForbidden, false, 403, apierr.ForbiddenMessage},
		{"unexpected error carries a stack when enabled", errors.New("db exploded"), true, 500, apierr.InternalMessage},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), false, 405, "nope"},
		{"fiber rate limit", fiber.NewError(fiber.StatusTooManyRequests, "slow down"), false, 429, "slow down"},
		{"rich error", goerrors.New("Theme not found", goerrors.CategoryNotFound), true, 404, "Theme not found"},
		{"unprocessable", apierr.Unprocessable("Theme does not exist"), false, 422, "Theme does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: api.NewErrorHandler(logging.Nop(), tt.stack)})
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
			require.NoError(t, err)
			defer res.Body.Close()

			var env apierr.Envelope
			require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.Equal(t, "/boom", env.Path)
			if tt.stack {
				assert.NotEmpty(t, env.Stack)
			} else {
				assert.Empty(t, env.Stack)
			}
		})
	}
}

func TestRedactBody(t *testing.T) {
	got := api.RedactBody([]byte(`{"email":"a@b.com","password":"Passw0rd","nested":{"password":"x"}}`))
	m := got.(map[string]any)
	assert.Equal(t, "a@b.com", m["email"])
	assert.Equal(t, "[REDACTED]", m["password"])
	assert.Equal(t, "[REDACTED]", m["nested"].(map[string]any)["password"])

	assert.Nil(t, api.RedactBody(nil))
	assert.Equal(t, "<3 bytes>", api.RedactBody([]byte("abc")))
}

func TestRouteTable(t *testing.T) {
	h := newHarness(t)

	for _, route := range h.server.Routes() {
		if len(route.Roles) > 0 {
			assert.True(t, route.RequiresAuth(), route.Name)
		}
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func TestToAPIError(t *testing.T) {
	assert.Nil(t, api.ToAPIError(nil))

	tests := []struct {
		name     string
		err      error
		category goerrors.Category
		status   int
	}{
		{"token", auth.ErrTokenMalformed, goerrors.CategoryAuth, http.StatusUnauthorized},
		{"credentials", auth.ErrInvalidCredentials, goerrors.CategoryAuth, http.StatusUnauthorized},
		{"malformed body", schema.ErrMalformedBody, goerrors.CategoryBadInput, http.StatusBadRequest},
		{"method", fiber.ErrMethodNotAllowed, goerrors.CategoryMethodNotAllowed, http.StatusMethodNotAllowed},
		{"unprocessable", fiber.ErrUnprocessableEntity, apierr.CategoryUnprocessable, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), goerrors.CategoryInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rich := api.ToAPIError(tt.err)
			require.NotNil(t, rich)
			assert.Equal(t, tt.category, rich.Category)
			assert.Equal(t, tt.status, apierr.StatusCode(rich))
			assert.ErrorIs(t, rich, tt.err)
		})
	}

	assert.Equal(t, "METHOD_NOT_ALLOWED", api.ToAPIError(fiber.ErrMethodNotAllowed).TextCode)

	rich := api.ToAPIError(errors.New("boom"))
	assert.NotEmpty(t, rich.StackTrace)
	assert.Equal(t, "INTERNAL", rich.TextCode)

	same := goerrors.New("Theme not found", goerrors.CategoryNotFound)
	assert.Same(t, same, api.ToAPIError(fmt.Errorf("wrapped: %w", same)))
}
