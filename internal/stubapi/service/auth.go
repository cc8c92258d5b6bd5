package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/hash"
	"github.com/Skotchmaster/storefront/internal/stubapi/models"
	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (h *AuthService) accessTTL() time.Duration {
	if h.AccessTTL > 0 {
		return h.AccessTTL
	}
	return defaultAccessTTL
}

func (h *AuthService) refreshTTL() time.Duration {
	if h.RefreshTTL > 0 {
		return h.RefreshTTL
	}
	return defaultRefreshTTL
}

func (h *AuthService) CreateAccessToken(user *models.User, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(h.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(userID int64, refreshExp time.Time) (string, string, error) {
	jti := uuid.NewString()
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jti,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(h.RefreshSecret)
	return token, jti, err
}

func (h *AuthService) Register(ctx context.Context, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "user"
	}
	user := &models.User{Email: email, PasswordHash: pwHash, Role: role}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (h *AuthService) Login(ctx context.Context, email, password string) (*apiclient.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := h.Repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Warn("login_failed", "reason", "unknown email")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "bad password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	pair, refresh, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.SaveRefresh(ctx, refresh); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is returned.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*apiclient.TokenPair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	stored, err := h.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token not found", ErrUnauthorized)
	}
	if stored.TokenHash != hash.Sha256Hex(refreshToken) {
		return nil, fmt.Errorf("%w: refresh token mismatch", ErrUnauthorized)
	}
	user, err := h.Repo.FindUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, classify(err)
	}

	pair, next, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.RotateRefresh(ctx, claims.ID, next); err != nil {
		return nil, classify(err)
	}
	return pair, nil
}

func (h *AuthService) Logout(ctx context.Context, userID int64) error {
	return h.Repo.RevokeAllRefresh(ctx, userID)
}

func (h *AuthService) issue(user *models.User) (*apiclient.TokenPair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(h.accessTTL())
	access, err := h.CreateAccessToken(user, accessExp)
	if err != nil {
		return nil, nil, err
	}

	refreshExp := now.Add(h.refreshTTL())
	refresh, jti, err := h.CreateRefreshToken(user.ID, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	pair := &apiclient.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp.Unix(),
		RefreshExp:   refreshExp.Unix(),
		IsAdmin:      user.Role == "admin",
	}
	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return pair, stored, nil
}
