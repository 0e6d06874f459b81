package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/emeraldgavel/auctionhouse-backend/pkg/auth"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/auth/session"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/security"
)

type stubUserRepo struct {
	user      *models.User
	lastLogin time.Time
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = at
	return nil
}

// stubSessionManager mimics the redis-backed manager with a single live session.
type stubSessionManager struct {
	accessID     string
	refreshToken string
	revoked      []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.accessID = accessID
	s.refreshToken = "refresh-" + accessID
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if oldAccessID != s.accessID || provided != s.refreshToken {
		return "", "", session.ErrInvalidRefreshToken
	}
	s.accessID = session.NewAccessID()
	s.refreshToken = "refresh-" + s.accessID
	return s.accessID, s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "auctionhouse",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessionMgr
}

func memberFixture(t *testing.T, password string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "member@example.com",
		PasswordHash: mustHashPassword(t, password),
		FullName:     "Member Example",
		Role:         enums.UserRoleMember,
		IsActive:     true,
	}
}

func TestLoginIssuesTokenPairWithRoleClaim(t *testing.T) {
	password := "member-secret"
	user := memberFixture(t, password)
	svc, repo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Member@Example.com ", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatal("expected sanitized user in response")
	}
	if repo.lastLogin.IsZero() {
		t.Fatal("expected last login recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleMember {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsWrongPasswordAndInactiveAccounts(t *testing.T) {
	password := "member-secret"
	user := memberFixture(t, password)
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	user.IsActive = false
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _, _ := buildTestService(t, memberFixture(t, "member-secret"))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesTheSession(t *testing.T) {
	password := "member-secret"
	user := memberFixture(t, password)
	svc, _, sessionMgr := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("refresh token must rotate")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != sessionMgr.accessID {
		t.Fatal("rotated access token must carry the new session id")
	}

	// The old refresh token is dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	password := "member-secret"
	user := memberFixture(t, password)
	svc, _, _ := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesTheSession(t *testing.T) {
	password := "member-secret"
	user := memberFixture(t, password)
	svc, _, sessionMgr := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessionMgr.revoked) != 1 || sessionMgr.revoked[0] != sessionMgr.accessID {
		t.Fatalf("expected the session id revoked, got %+v", sessionMgr.revoked)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, typed.Code(), err)
	}
}
