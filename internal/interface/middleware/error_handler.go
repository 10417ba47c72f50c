package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// ErrorResponse はエラーレスポンス構造を定義します
type ErrorResponse struct {
	Error ErrorBody  `json:"error"`
	Meta  *ErrorMeta `json:"meta,omitempty"`
}

// ErrorBody はエラー本体を定義します
type ErrorBody struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// ErrorMeta はエラーの付帯情報です
type ErrorMeta struct {
	RequestID string `json:"requestId,omitempty"`
}

// echoのHTTPErrorをアプリケーションのエラーコードに対応付ける
var httpStatusCodes = map[int]apperror.ErrorCode{
	http.StatusBadRequest:            apperror.CodeInvalidRequest,
	http.StatusUnauthorized:          apperror.CodeUnauthorized,
	http.StatusForbidden:             apperror.CodeForbidden,
	http.StatusNotFound:              apperror.CodeNotFound,
	http.StatusMethodNotAllowed:      apperror.CodeInvalidRequest,
	http.StatusRequestEntityTooLarge: apperror.CodeInvalidRequest,
	http.StatusTooManyRequests:       apperror.CodeRateLimitExceeded,
}

// CustomHTTPErrorHandler はカスタムエラーハンドラーです
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	meta := &ErrorMeta{RequestID: GetRequestID(c)}
	ctx := c.Request().Context()

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= 500 {
			logger.WithError(ctx, appErr).Error("internal error", "code", appErr.Code)
		}

		_ = c.JSON(appErr.HTTPStatus, ErrorResponse{
			Error: ErrorBody{
				Code:    string(appErr.Code),
				Message: appErr.Message,
				Details: appErr.Details,
			},
			Meta: meta,
		})
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, ok := httpStatusCodes[he.Code]
		if !ok {
			code = apperror.ErrorCode(http.StatusText(he.Code))
		}

		_ = c.JSON(he.Code, ErrorResponse{
			Error: ErrorBody{
				Code:    string(code),
				Message: fmt.Sprintf("%v", he.Message),
			},
			Meta: meta,
		})
		return
	}

	logger.WithError(ctx, err).Error("unknown error")

	_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorBody{
			Code:    string(apperror.CodeInternalError),
			Message: "internal server error",
		},
		Meta: meta,
	})
}
