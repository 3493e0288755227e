package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/materialhub-backend/internal/domain/user"
)

type requestDataKey struct{}

// RequestData is attached by the auth middleware once a bearer token resolves to a user.
type RequestData struct {
	UserID uuid.UUID
	User   *user.User
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(ctx context.Context) *user.User {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.User
	}
	return nil
}
