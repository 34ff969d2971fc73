package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, e APIError) {
	writeJSON(w, status, errorResponse{Error: e})
}

// writeError maps the common sentinels to HTTP statuses. Anything unknown
// becomes a 500 with a fixed message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorConflict):
		writeAPIError(w, http.StatusConflict, APIError{Code: "conflict", Message: "resource already exists"})
	case errors.Is(err, common.ErrorUnauthorized):
		writeAPIError(w, http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "Unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeAPIError(w, http.StatusNotFound, APIError{Code: "not_found", Message: "not found"})
	case errors.Is(err, common.ErrorValidation):
		writeAPIError(w, http.StatusBadRequest, APIError{Code: "validation_failed", Message: err.Error()})
	default:
		writeAPIError(w, http.StatusInternalServerError, APIError{Code: "internal", Message: common.ErrorInternal.Error()})
	}
}

// decodeAndValidate reads a JSON body into dst and checks its validate
// tags. On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid json"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		writeAPIError(w, http.StatusBadRequest, APIError{Code: "bad_request", Message: msg})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeAPIError(w, http.StatusBadRequest, APIError{
			Code:    "validation_failed",
			Message: "request validation failed",
			Details: validationDetails(err),
		})
		return false
	}

	return true
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			out = append(out, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return out
}
