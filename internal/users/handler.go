package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/metrics"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/tracing"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

type userRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Update(ctx context.Context, user User) error
}

type Handler struct {
	repo        userRepo
	authService *auth.Service
	metrics     *metrics.Manager
}

func NewHandler(repo userRepo, authService *auth.Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:        repo,
		authService: authService,
		metrics:     metrics,
	}
}

// SetupRoutes mounts all /user routes. Credential endpoints get wrapped with
// the provided rate limiting middleware.
func (handler *Handler) SetupRoutes(router *mux.Router, rateLimit mux.MiddlewareFunc) {
	router.Handle("/create", rateLimit(http.HandlerFunc(handler.handleRegister))).Methods("POST", "OPTIONS")
	router.Handle("/token", rateLimit(http.HandlerFunc(handler.handleToken))).Methods("POST", "OPTIONS")
	router.HandleFunc("/token/refresh", handler.handleTokenRefresh).Methods("POST", "OPTIONS")
	router.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS")
	router.HandleFunc("/me", handler.handleGetMe).Methods("GET", "OPTIONS")
	router.HandleFunc("/me", handler.handleUpdateMe).Methods("PATCH")
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.register")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register user, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = NormalizeEmail(req.Email)

	fields := map[string]string{}
	switch {
	case req.Email == "":
		fields["email"] = "this field is required"
	case !ValidEmail(req.Email):
		fields["email"] = "enter a valid email address"
	}
	switch {
	case req.Password == "":
		fields["password"] = "this field is required"
	case len(req.Password) < MinPasswordLength:
		fields["password"] = fmt.Sprintf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register user, hash password: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := handler.repo.Add(ctx, User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
				"email": "user with this email already exists",
			})
			return
		}
		log.Errorf("register user [%s]: %s", req.Email, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pair, err := handler.authService.NewTokenPair(auth.TokenUser{
		ID:      user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		log.Errorf("register user [%s], issue token pair: %s", user.Email, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	handler.metrics.CounterRegisteredUsers.Inc()
	handler.metrics.CounterIssuedTokenPairs.Inc()
	log.Debugf("new user registered: %d [%s]", user.ID, user.Email)

	pairJson, err := json.Marshal(pair)
	if err != nil {
		log.Errorf("register user, marshal token pair: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, pairJson, http.StatusCreated)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.token")
	defer span.End()

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("obtain token, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = NormalizeEmail(req.Email)

	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "this field is required"
	}
	if req.Password == "" {
		fields["password"] = "this field is required"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Errorf("obtain token, get user [%s]: %s", req.Email, err)
		}
		pkg.WriteError(w, http.StatusUnauthorized, "no active account found with the given credentials")
		return
	}

	if !user.IsActive || !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		pkg.WriteError(w, http.StatusUnauthorized, "no active account found with the given credentials")
		return
	}

	pair, err := handler.authService.NewTokenPair(auth.TokenUser{
		ID:      user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		log.Errorf("obtain token [%s], issue token pair: %s", user.Email, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	handler.metrics.CounterIssuedTokenPairs.Inc()
	log.Debugf("token pair issued for user: %d [%s]", user.ID, user.Email)

	pairJson, err := json.Marshal(pair)
	if err != nil {
		log.Errorf("obtain token, marshal token pair: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, pairJson)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (handler *Handler) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.tokenRefresh")
	defer span.End()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("refresh token, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Refresh == "" {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"refresh": "this field is required",
		})
		return
	}

	access, err := handler.authService.Refresh(ctx, req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			pkg.WriteError(w, http.StatusUnauthorized, "token expired")
		case errors.Is(err, auth.ErrTokenBlacklisted):
			pkg.WriteError(w, http.StatusUnauthorized, "token blacklisted")
		case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrWrongTokenType):
			pkg.WriteError(w, http.StatusUnauthorized, "token invalid")
		default:
			log.Errorf("refresh token: %s", err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respJson, err := json.Marshal(struct {
		Access string `json:"access"`
	}{Access: access})
	if err != nil {
		log.Errorf("refresh token, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.logout")
	defer span.End()

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("logout, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"refresh_token": "this field is required",
		})
		return
	}

	if err := handler.authService.Logout(ctx, req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			pkg.WriteError(w, http.StatusUnauthorized, "token expired")
		case errors.Is(err, auth.ErrTokenBlacklisted):
			pkg.WriteError(w, http.StatusUnauthorized, "token blacklisted")
		case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrWrongTokenType):
			pkg.WriteError(w, http.StatusUnauthorized, "token invalid")
		default:
			log.Errorf("logout: %s", err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	handler.metrics.CounterBlacklistedTokens.Inc()

	pkg.WriteJSONResponseOK(w, `{"message":"logged out"}`)
}

func (handler *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.getMe")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "no auth token")
		return
	}

	user, err := handler.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Errorf("get user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("get user, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (handler *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.updateMe")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "no auth token")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update user, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password != nil && len(*req.Password) < MinPasswordLength {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"password": fmt.Sprintf("password must be at least %d characters long", MinPasswordLength),
		})
		return
	}

	user, err := handler.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Errorf("update user, get user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		passwordHash, err := pkg.HashPassword(*req.Password)
		if err != nil {
			log.Errorf("update user, hash password: %s", err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user.PasswordHash = passwordHash
	}

	if err := handler.repo.Update(ctx, *user); err != nil {
		log.Errorf("update user %d: %s", user.ID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("update user, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
}
