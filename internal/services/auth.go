package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// JWTClaims carries the user's internal id or external id as subject.
type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	IssueToken(u *user.User) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     users.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, userRepo users.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) IssueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken resolves the bearer token to a user and attaches it to ctx.
// An empty token leaves ctx anonymous.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}

	dbc := dbctx.Context{Ctx: ctx}
	var u *user.User
	if id, perr := uuid.Parse(claims.Subject); perr == nil {
		u, err = as.userRepo.GetByID(dbc, id)
	} else {
		u, err = as.userRepo.GetByUUID(dbc, claims.Subject)
	}
	if err != nil {
		as.log.Warn("Failed to load token subject", "error", err)
		return ctx, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return ctx, fmt.Errorf("token subject not found")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: u.ID, User: u}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
