package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

func TestRespondErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", apierr.NotFound("materials.get", "material not found"), http.StatusNotFound, "not_found", "material not found"},
		{"bad data", apierr.MissingRequiredField("entities.add", "quiz", "title"), http.StatusBadRequest, "bad_data", ""},
		{"unknown type", apierr.UnknownType("entities.add", "widget"), http.StatusInternalServerError, "unknown_type", "internal error"},
		{"raw error", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal", "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondError(c, logger.Nop(), tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status: want %d got %d", tc.status, rec.Code)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code: want %q got %q", tc.code, env.Error.Code)
			}
			if tc.message != "" && env.Error.Message != tc.message {
				t.Fatalf("message: want %q got %q", tc.message, env.Error.Message)
			}
		})
	}
}
