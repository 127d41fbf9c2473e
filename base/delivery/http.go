package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// ErrorBody is the data of a failed response
type ErrorBody struct {
	Code   string `json:"code"`
	Kind   string `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// StatusOf maps an error to its http status, fallback is used for unknown errors
func StatusOf(err error, fallback int) int {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, domain.ErrBadParamInput) || errors.Is(err, domain.ErrInvalidAddress) || errors.Is(err, domain.ErrInvalidNumberFormat) {
		return http.StatusBadRequest
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if kind, ok := market.KindOf(err); ok {
		switch kind {
		case market.KindAuthorization:
			return http.StatusForbidden
		case market.KindState:
			return http.StatusConflict
		case market.KindValidation:
			return http.StatusBadRequest
		case market.KindPayment:
			return http.StatusPaymentRequired
		}
	}
	return fallback
}

func toErrorBody(err error) ErrorBody {
	var me *market.Error
	if errors.As(err, &me) {
		return ErrorBody{Code: me.Code, Kind: string(me.Kind), Detail: me.Detail}
	}
	return ErrorBody{Code: err.Error()}
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err, status)
		data = toErrorBody(err)
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
