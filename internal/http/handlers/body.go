package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

// readBody decodes the JSON request body into a generic map.
func readBody(c *gin.Context, op string) (map[string]any, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, apierr.BadDataf(op, "invalid json body: %v", err)
	}
	if body == nil {
		return nil, apierr.BadData(op, "empty body")
	}
	return body, nil
}

// bodyObject returns body[key] as an object.
func bodyObject(c *gin.Context, op, key string) (map[string]any, error) {
	body, err := readBody(c, op)
	if err != nil {
		return nil, err
	}
	obj, ok := body[key].(map[string]any)
	if !ok {
		return nil, apierr.BadDataf(op, "body must carry an object under %q", key)
	}
	return obj, nil
}

// bodyList returns body[key] as a list of objects.
func bodyList(c *gin.Context, op, key string) ([]map[string]any, error) {
	body, err := readBody(c, op)
	if err != nil {
		return nil, err
	}
	raw, ok := body[key].([]any)
	if !ok {
		return nil, apierr.BadDataf(op, "body must carry a list under %q", key)
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, apierr.BadDataf(op, "%s[%d] is not an object", key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}
