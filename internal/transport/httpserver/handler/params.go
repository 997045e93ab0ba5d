package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID reads a UUID path parameter. Anything that does not parse names
// no stored row, so callers answer it with the resource's not-found error.
func pathID(r *http.Request, key string) (string, bool) {
	return parseID(chi.URLParam(r, key))
}

func parseID(value string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// optionalID normalizes an optional id from a request body. A blank value
// counts as absent.
func optionalID(value *string) (*string, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	id, ok := parseID(*value)
	if !ok {
		return nil, false
	}
	return &id, true
}
