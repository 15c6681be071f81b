// Package response writes JSON bodies and localized error envelopes for the HTTP API.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
	Details any           `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to its status code and writes a message localized for the request's Accept-Language.
func Error(w http.ResponseWriter, r *http.Request, log logger.ZapLogger, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal || appErr.Code == apperror.CodeUnavailable {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	JSON(w, appErr.HTTPStatus(), ErrorBody{
		Error: ErrorDetail{
			Code:    appErr.Code,
			Message: i18n.T(r.Header.Get("Accept-Language"), appErr.LocalizationID(), nil),
			Details: appErr.Details,
		},
	})
}
