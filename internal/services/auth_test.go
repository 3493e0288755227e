package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/ctxutil"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	u := testutil.SeedUser(t, gdb, "owner@test.io", user.RoleInstructor)
	auth := NewAuthService(log, users.NewUserRepo(gdb, log), "test-secret", time.Hour)

	tok, err := auth.IssueToken(u)
	require.NoError(t, err)

	ctx, err := auth.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	got := ctxutil.CurrentUser(ctx)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	other := NewAuthService(log, users.NewUserRepo(gdb, log), "other-secret", time.Hour)
	_, err = other.SetContextFromToken(context.Background(), tok)
	assert.Error(t, err)

	ctx, err = auth.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, ctxutil.CurrentUser(ctx))
}
