package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// UserAddress pulls the named address parameter off the query string.
// Mutating POSTs carry the caller's address as a query parameter rather
// than in the body.
func UserAddress(r *http.Request, key string) (string, error) {
	address := strings.TrimSpace(r.URL.Query().Get(key))
	if address == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, key+" query parameter is required")
	}
	return address, nil
}
