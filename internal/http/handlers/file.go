package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-viper/mapstructure/v2"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/http/response"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type FileHandler struct {
	log   *logger.Logger
	tx    aggregates.TxRunner
	files services.FileService
}

func NewFileHandler(log *logger.Logger, tx aggregates.TxRunner, files services.FileService) *FileHandler {
	return &FileHandler{log: log.With("handler", "FileHandler"), tx: tx, files: files}
}

// GET /files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	u := ctxutil.CurrentUser(c.Request.Context())
	view, err := h.files.Info(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), u)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"file": view})
}

// POST /files
// body: { "file": { "fileName": "...", "contentType": "...", "size": 123 } }
func (h *FileHandler) RequestUpload(c *gin.Context) {
	const op = "files.request_upload"
	data, err := bodyObject(c, op, "file")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req struct {
		FileName    string `mapstructure:"fileName"`
		ContentType string `mapstructure:"contentType"`
		Size        int64  `mapstructure:"size"`
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: &req})
	if err == nil {
		err = dec.Decode(data)
	}
	if err != nil {
		response.RespondError(c, h.log, apierr.BadDataf(op, "invalid file: %v", err))
		return
	}

	u := ctxutil.CurrentUser(c.Request.Context())
	var (
		view      map[string]any
		uploadURL string
	)
	err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		view, uploadURL, err = h.files.RequestUpload(dbc, u, services.UploadRequest{
			FileName:    req.FileName,
			ContentType: req.ContentType,
			SizeBytes:   req.Size,
		})
		return err
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"file": view, "uploadUrl": uploadURL})
}
