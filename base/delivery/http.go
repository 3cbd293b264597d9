package delivery

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
	// Code is the machine readable error code of a failed request
	Code string `json:"code,omitempty"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindState:        http.StatusUnprocessableEntity,
	domain.KindExternal:     http.StatusBadGateway,
	domain.KindInternal:     http.StatusInternalServerError,
}

// StatusOf maps an error to the http status of its kind
func StatusOf(err error) int {
	var verr validator.ValidationErrors
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &herr):
		return herr.Code
	case errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound
	}
	return kindStatus[domain.KindOf(err)]
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	code := ""
	if err, ok := data.(error); ok {
		status = StatusOf(err)
		var derr *domain.Error
		if errors.As(err, &derr) {
			code = derr.Code
			data = derr.Msg
		} else {
			data = err.Error()
		}
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusFail, Code: code})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
