package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 24 * 7 * time.Hour
)

var (
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenBlacklisted = errors.New("token blacklisted")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// TokenUser is the identity snapshot baked into issued tokens.
type TokenUser struct {
	ID      int
	Email   string
	IsStaff bool
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Claims struct {
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type blacklist interface {
	Add(ctx context.Context, jti string, userID int, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type Service struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  blacklist
	// injectable for unit and dev testing
	NowFunc        func() time.Time
	RandStringFunc func(s int) (string, error)
}

func NewService(
	signingKey []byte,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	blacklistRepo blacklist,
) *Service {
	return &Service{
		signingKey:     signingKey,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		blacklist:      blacklistRepo,
		NowFunc:        time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// NewTokenPair issues a fresh access + refresh token pair for the user.
func (s *Service) NewTokenPair(user TokenUser) (TokenPair, error) {
	access, err := s.newToken(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("new access token: %w", err)
	}
	refresh, err := s.newToken(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("new refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Service) newToken(user TokenUser, tokenType string, ttl time.Duration) (string, error) {
	jti, err := s.RandStringFunc(24)
	if err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}

	now := s.NowFunc()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		IsStaff:   user.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// ParseToken validates the signature, expiry and token type.
func (s *Service) ParseToken(tokenString, wantType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (interface{}, error) {
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.NowFunc() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}

	return &claims, nil
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new access
// token. The identity claims are copied over from the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ParseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		return "", ErrTokenBlacklisted
	}

	return s.newToken(TokenUser{
		ID:      claims.UserID,
		Email:   claims.Email,
		IsStaff: claims.IsStaff,
	}, TokenTypeAccess, s.accessTTL)
}

// Logout blacklists the refresh token. Already issued access tokens stay
// valid until their natural expiry.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return err
	}

	if err := s.blacklist.Add(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, ErrTokenBlacklisted) {
			return ErrTokenBlacklisted
		}
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

// ScanAndClean drops blacklist entries whose tokens expired anyway.
func (s *Service) ScanAndClean(ctx context.Context) {
	removed, err := s.blacklist.DeleteExpired(ctx)
	if err != nil {
		log.Errorf("!!! auth service, scan and clean blacklist: %s", err)
		return
	}
	if removed > 0 {
		log.Warnf("=> auth service, scan and clean removed %d expired blacklist entries", removed)
	}
}
