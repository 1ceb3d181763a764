package service

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/config"
	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, UserService, *mockRepos, *mockBlacklist, *jwt.Manager) {
	t.Helper()
	repo, mocks := newMockRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: time.Hour,
	})
	bl := newMockBlacklist()
	logger := zap.NewNop()
	return NewAuthService(repo, jwtMgr, bl, logger), NewUserService(repo, logger), mocks, bl, jwtMgr
}

func TestLogin_Success(t *testing.T) {
	svc, users, mocks, _, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()
	u := createTestUser(t, users, "registrar")

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "registrar", Password: "s3cretpass"})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 3600 {
		t.Errorf("unexpected token metadata: %s / %d", resp.TokenType, resp.ExpiresIn)
	}
	if resp.User.ID != u.ID || resp.User.Profile == nil {
		t.Errorf("expected the identity with its profile, got %+v", resp.User)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.UserID != u.ID || claims.Username != "registrar" || claims.ID == "" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if mocks.user.users[u.ID].LastLogin == nil {
		t.Error("expected last_login to be recorded")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users, _, _, _ := setupTestAuthService(t)
	createTestUser(t, users, "registrar")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "registrar", Password: "nope-nope"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _, _, _, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, users, mocks, _, _ := setupTestAuthService(t)
	u := createTestUser(t, users, "former")
	mocks.user.users[u.ID].IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "former", Password: "s3cretpass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout_BlacklistsTokenID(t *testing.T) {
	svc, users, _, bl, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()
	createTestUser(t, users, "registrar")

	resp, _ := svc.Login(ctx, &dto.LoginRequest{Username: "registrar", Password: "s3cretpass"})
	claims, _ := jwtMgr.ParseToken(resp.AccessToken)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}
	ttl, ok := bl.entries[claims.ID]
	if !ok {
		t.Fatal("expected the token id to be blacklisted")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected ttl up to the token expiry, got %s", ttl)
	}
}

func TestLogout_ExpiredTokenSkipped(t *testing.T) {
	svc, _, _, bl, _ := setupTestAuthService(t)
	claims := &jwt.Claims{RegisteredClaims: jwtv5.RegisteredClaims{
		ID:        "old",
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}
	if len(bl.entries) != 0 {
		t.Error("an already expired token needs no blacklist entry")
	}
}

func TestLogout_WithoutBlacklist(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewAuthService(repo, jwt.NewManager(&config.AuthConfig{JWTSecret: "x", AccessTokenTTL: time.Hour}), nil, zap.NewNop())
	if err := svc.Logout(context.Background(), &jwt.Claims{}); err != nil {
		t.Errorf("logout without a blacklist must be a no-op, got %v", err)
	}
}
