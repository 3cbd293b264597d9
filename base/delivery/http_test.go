package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	"github.com/x-xyz/saleengine/domain"
)

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		domain.ErrBidTooLow:                               http.StatusBadRequest,
		domain.ErrUnauthorized:                            http.StatusUnauthorized,
		domain.ErrSelfBidForbidden:                        http.StatusForbidden,
		domain.ErrObjectNotFound:                          http.StatusNotFound,
		domain.ErrStaleLeader:                             http.StatusConflict,
		domain.ErrAuctionClosed:                           http.StatusUnprocessableEntity,
		xerrors.Errorf("capture: %w", domain.ErrExternal): http.StatusBadGateway,
		errors.New("boom"):                                http.StatusInternalServerError,
		echo.ErrUnsupportedMediaType:                      http.StatusUnsupportedMediaType,
	}
	for err, status := range cases {
		assert.Equal(t, status, StatusOf(err), err.Error())
	}
}

func TestMakeJsonResp(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	assert.NoError(t, MakeJsonResp(c, http.StatusOK, domain.ErrBidTooLow.WithMsg("minimum is 120")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := JsonResponse{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, JsonResponseStatusFail, resp.Status)
	assert.Equal(t, "BidTooLow", resp.Code)
	assert.Equal(t, "minimum is 120", resp.Data)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	assert.NoError(t, MakeJsonResp(c, http.StatusCreated, map[string]string{"id": "x"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
}
