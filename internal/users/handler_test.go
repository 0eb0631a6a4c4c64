package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/metrics"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noRateLimit(next http.Handler) http.Handler {
	return next
}

type handlerTestSetup struct {
	repo        *repoMock
	authService *auth.Service
	router      *mux.Router
}

func newHandlerTestSetup(initial ...User) *handlerTestSetup {
	repo := NewRepoMock(initial...)
	authService := auth.NewService(
		[]byte("test-signing-key"),
		auth.DefaultAccessTTL,
		auth.DefaultRefreshTTL,
		auth.NewMockBlacklist(),
	)

	router := mux.NewRouter()
	handler := NewHandler(repo, authService, metrics.NewTestManager())
	handler.SetupRoutes(router.PathPrefix("/user").Subrouter(), noRateLimit)

	return &handlerTestSetup{
		repo:        repo,
		authService: authService,
		router:      router,
	}
}

func (s *handlerTestSetup) request(method, path, body string, identity *auth.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if identity != nil {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := pkg.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestHandleRegister(t *testing.T) {
	s := newHandlerTestSetup()

	email := gofakeit.Email()
	body := fmt.Sprintf(`{"email":%q,"name":"Nika","password":"strong-password"}`, email)
	rec := s.request("POST", "/user/create", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := s.authService.ParseToken(pair.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, NormalizeEmail(email), claims.Email)
	assert.False(t, claims.IsStaff)

	user, err := s.repo.GetByEmail(context.Background(), NormalizeEmail(email))
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, user.ID)
	assert.Equal(t, "Nika", user.Name)
	assert.True(t, user.IsActive)
	assert.True(t, pkg.CheckPasswordHash("strong-password", user.PasswordHash))
}

func TestHandleRegister_NormalizesEmailDomain(t *testing.T) {
	s := newHandlerTestSetup()

	rec := s.request("POST", "/user/create",
		`{"email":"Test2@Example.com","password":"strong-password"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, err := s.repo.GetByEmail(context.Background(), "Test2@example.com")
	assert.NoError(t, err)
}

func TestHandleRegister_Validation(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing email", `{"password":"strong-password"}`, "email"},
		{"invalid email", `{"email":"not-an-email","password":"strong-password"}`, "email"},
		{"missing password", `{"email":"u@example.com"}`, "password"},
		{"short password", `{"email":"u@example.com","password":"short"}`, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newHandlerTestSetup()
			rec := s.request("POST", "/user/create", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp pkg.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Contains(t, errResp.Fields, tc.wantField)
		})
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID: 1, Email: "taken@example.com", PasswordHash: "x", IsActive: true,
	})

	rec := s.request("POST", "/user/create",
		`{"email":"taken@example.com","password":"strong-password"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Fields, "email")
}

func TestHandleToken(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID:           5,
		Email:        "u@example.com",
		PasswordHash: mustHashPassword(t, "strong-password"),
		IsActive:     true,
	})

	rec := s.request("POST", "/user/token",
		`{"email":"u@example.com","password":"strong-password"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	claims, err := s.authService.ParseToken(pair.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
}

func TestHandleToken_WrongCredentials(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID:           5,
		Email:        "u@example.com",
		PasswordHash: mustHashPassword(t, "strong-password"),
		IsActive:     true,
	})

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"u@example.com","password":"wrong-password"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"strong-password"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.request("POST", "/user/token", tc.body, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHandleToken_InactiveUser(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID:           5,
		Email:        "u@example.com",
		PasswordHash: mustHashPassword(t, "strong-password"),
		IsActive:     false,
	})

	rec := s.request("POST", "/user/token",
		`{"email":"u@example.com","password":"strong-password"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleToken_BlankCredentials(t *testing.T) {
	s := newHandlerTestSetup()

	rec := s.request("POST", "/user/token", `{"email":"u@example.com","password":""}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Fields, "password")
}

func TestHandleTokenRefresh(t *testing.T) {
	s := newHandlerTestSetup()

	pair, err := s.authService.NewTokenPair(auth.TokenUser{ID: 5, Email: "u@example.com"})
	require.NoError(t, err)

	rec := s.request("POST", "/user/token/refresh",
		fmt.Sprintf(`{"refresh":%q}`, pair.Refresh), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := s.authService.ParseToken(resp.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
}

func TestHandleTokenRefresh_Invalid(t *testing.T) {
	s := newHandlerTestSetup()

	rec := s.request("POST", "/user/token/refresh", `{"refresh":"not.a.token"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.request("POST", "/user/token/refresh", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	s := newHandlerTestSetup()

	pair, err := s.authService.NewTokenPair(auth.TokenUser{ID: 5, Email: "u@example.com"})
	require.NoError(t, err)

	rec := s.request("POST", "/user/logout",
		fmt.Sprintf(`{"refresh_token":%q}`, pair.Refresh), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// blacklisted refresh token must be unusable
	rec = s.request("POST", "/user/token/refresh",
		fmt.Sprintf(`{"refresh":%q}`, pair.Refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// double logout
	rec = s.request("POST", "/user/logout",
		fmt.Sprintf(`{"refresh_token":%q}`, pair.Refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogout_MissingToken(t *testing.T) {
	s := newHandlerTestSetup()

	rec := s.request("POST", "/user/logout", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Fields, "refresh_token")
}

func TestHandleGetMe(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID: 5, Email: "u@example.com", Name: "Nika", PasswordHash: "x", IsActive: true,
	})

	rec := s.request("GET", "/user/me", "", &auth.Identity{UserID: 5, Email: "u@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, 5, user.ID)
	assert.Equal(t, "u@example.com", user.Email)
	assert.Equal(t, "Nika", user.Name)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleUpdateMe(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID: 5, Email: "u@example.com", Name: "Nika",
		PasswordHash: mustHashPassword(t, "strong-password"), IsActive: true,
	})

	rec := s.request("PATCH", "/user/me",
		`{"name":"Nika G.","password":"even-stronger-password"}`,
		&auth.Identity{UserID: 5, Email: "u@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := s.repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Nika G.", user.Name)
	assert.True(t, pkg.CheckPasswordHash("even-stronger-password", user.PasswordHash))
}

func TestHandleUpdateMe_ShortPassword(t *testing.T) {
	s := newHandlerTestSetup(User{
		ID: 5, Email: "u@example.com", PasswordHash: "x", IsActive: true,
	})

	rec := s.request("PATCH", "/user/me", `{"password":"short"}`,
		&auth.Identity{UserID: 5, Email: "u@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMe_MethodNotAllowed(t *testing.T) {
	s := newHandlerTestSetup()

	rec := s.request("POST", "/user/me", `{}`, &auth.Identity{UserID: 5})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
