package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/materialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

func TestRequestUploadRegistersFile(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)
	other := testutil.SeedUser(t, h.seed, "other@test.io", user.RoleStudent)

	view, uploadURL, err := h.files.RequestUpload(h.dbc, owner, UploadRequest{
		FileName:    "../../slides.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "slides.pdf", view["fileName"])
	assert.True(t, strings.HasPrefix(uploadURL, "https://upload.test/files/"+owner.UUID+"/"))
	assert.True(t, strings.HasSuffix(view["url"].(string), "/slides.pdf"))

	id := view["uuid"].(string)
	info, err := h.files.Info(h.dbc, id, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), info["size"])

	_, err = h.files.Info(h.dbc, id, other)
	assert.True(t, apierr.IsKind(err, apierr.KindNotFound))
}

func TestRequestUploadValidation(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)

	for _, req := range []UploadRequest{
		{FileName: "", ContentType: "image/png", SizeBytes: 1},
		{FileName: "a.png", ContentType: "", SizeBytes: 1},
		{FileName: "a.png", ContentType: "image/png", SizeBytes: 0},
		{FileName: "a.png", ContentType: "image/png", SizeBytes: maxUploadBytes + 1},
	} {
		_, _, err := h.files.RequestUpload(h.dbc, owner, req)
		assert.True(t, apierr.IsKind(err, apierr.KindBadData), "request %+v", req)
	}
}

func TestPublicURLForMissingAsset(t *testing.T) {
	h := newHarness(t, true)
	u, err := h.files.PublicURL(h.dbc, "missingasset")
	require.NoError(t, err)
	assert.Empty(t, u)

	_, err = h.files.Resolve(h.dbc, "missingasset")
	assert.True(t, apierr.IsKind(err, apierr.KindBadData))
}

func TestRolledBackUploadLeavesNoCachedURL(t *testing.T) {
	h := newHarness(t, true)
	owner := testutil.SeedUser(t, h.seed, "owner@test.io", user.RoleInstructor)

	require.NoError(t, h.seed.SavePoint("upload").Error)
	view, _, err := h.files.RequestUpload(h.dbc, owner, UploadRequest{
		FileName:    "draft.png",
		ContentType: "image/png",
		SizeBytes:   10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, view["url"])
	require.NoError(t, h.seed.RollbackTo("upload").Error)

	u, err := h.files.PublicURL(h.dbc, view["uuid"].(string))
	require.NoError(t, err)
	assert.Empty(t, u)
}
