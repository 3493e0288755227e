package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	materialrepo "github.com/yungbote/materialhub-backend/internal/data/repos/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

const (
	defaultURLCacheSize = 1024
	defaultUploadTTL    = 15 * time.Minute
	maxUploadBytes      = 512 << 20
)

// AssetStorage is the object store that holds uploaded files.
type AssetStorage interface {
	PublicURL(key string) string
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type UploadRequest struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

type FileService interface {
	Resolve(dbc dbctx.Context, externalID string) (*materials.Asset, error)
	PublicURL(dbc dbctx.Context, externalID string) (string, error)
	Info(dbc dbctx.Context, externalID string, u *user.User) (map[string]any, error)
	RequestUpload(dbc dbctx.Context, u *user.User, req UploadRequest) (map[string]any, string, error)
}

type fileService struct {
	log       *logger.Logger
	assets    materialrepo.AssetRepo
	storage   AssetStorage
	urls      *lru.Cache[string, string]
	uploadTTL time.Duration
}

func NewFileService(baseLog *logger.Logger, assets materialrepo.AssetRepo, storage AssetStorage, cacheSize int) (FileService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultURLCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("asset url cache: %w", err)
	}
	return &fileService{
		log:       baseLog.With("service", "FileService"),
		assets:    assets,
		storage:   storage,
		urls:      cache,
		uploadTTL: defaultUploadTTL,
	}, nil
}

// Resolve returns the asset or a ReferenceNotFound error.
func (fs *fileService) Resolve(dbc dbctx.Context, externalID string) (*materials.Asset, error) {
	a, err := fs.assets.GetByUUID(dbc, externalID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apierr.ReferenceNotFound("files.resolve", "asset", externalID)
	}
	return a, nil
}

// PublicURL maps an asset id to its public URL. Storage keys never change,
// so resolved URLs are cached for the life of the process.
func (fs *fileService) PublicURL(dbc dbctx.Context, externalID string) (string, error) {
	if externalID == "" {
		return "", nil
	}
	if u, ok := fs.urls.Get(externalID); ok {
		return u, nil
	}
	a, err := fs.assets.GetByUUID(dbc, externalID)
	if err != nil {
		return "", err
	}
	if a == nil {
		fs.log.Warn("Material references a missing asset", "asset", externalID)
		return "", nil
	}
	u := fs.storage.PublicURL(a.StorageKey)
	fs.urls.Add(externalID, u)
	return u, nil
}

func (fs *fileService) Info(dbc dbctx.Context, externalID string, u *user.User) (map[string]any, error) {
	a, err := fs.assets.GetByUUID(dbc, externalID)
	if err != nil {
		return nil, err
	}
	if a == nil || u == nil || (a.OwnerID != u.ID && !u.IsAdmin()) {
		return nil, notFound("files.info", "file")
	}
	return fs.view(a), nil
}

// view reads the URL straight from the row so that rows inserted by a
// transaction that later rolls back never reach the URL cache.
func (fs *fileService) view(a *materials.Asset) map[string]any {
	return map[string]any{
		"uuid":        a.UUID,
		"fileName":    a.FileName,
		"contentType": a.ContentType,
		"size":        a.SizeBytes,
		"url":         fs.storage.PublicURL(a.StorageKey),
	}
}

// RequestUpload registers the file and returns its view plus a presigned PUT URL.
func (fs *fileService) RequestUpload(dbc dbctx.Context, u *user.User, req UploadRequest) (map[string]any, string, error) {
	const op = "files.request_upload"
	if u == nil {
		return nil, "", notFound(op, "user")
	}
	name := path.Base(strings.TrimSpace(req.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, "", apierr.MissingRequiredField(op, "file", "fileName")
	}
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		return nil, "", apierr.MissingRequiredField(op, "file", "contentType")
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		return nil, "", apierr.BadDataf(op, "file size must be between 1 and %d bytes", maxUploadBytes)
	}

	a := &materials.Asset{
		OwnerID:     u.ID,
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   req.SizeBytes,
	}
	a.EnsureIdentity()
	a.StorageKey = fmt.Sprintf("files/%s/%s/%s", u.UUID, a.UUID, name)

	if err := fs.assets.Create(dbc, a); err != nil {
		return nil, "", err
	}
	uploadURL, err := fs.storage.PresignUpload(ctxOf(dbc), a.StorageKey, contentType, fs.uploadTTL)
	if err != nil {
		fs.log.Error("Presign upload failed", "error", err, "asset", a.UUID)
		return nil, "", apierr.Internal(op, err)
	}
	return fs.view(a), uploadURL, nil
}
