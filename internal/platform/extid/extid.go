package extid

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// Len is the length of every generated external id.
const Len = 12

// New returns a 12 character URL-safe id drawn from a random UUID.
func New() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:9])
}

// Valid reports whether s has the shape of a generated id.
func Valid(s string) bool {
	if len(s) != Len {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil
}

// Normalize trims whitespace; an empty result means "no id".
func Normalize(s string) string {
	return strings.TrimSpace(s)
}
