package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-quantity-service/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService fails with the error registered for a productId and
// otherwise echoes the request back as a successful update.
type stubService struct {
	failures map[string]error
	calls    int
}

func (s *stubService) UpdateProductQuantity(ctx context.Context, req dto.ProductQuantityRequest) (dto.ProductQuantityResponse, error) {
	s.calls++
	if !req.IsValid() {
		return dto.ProductQuantityResponse{}, errs.ErrClient
	}
	if err, ok := s.failures[req.ProductID]; ok {
		return dto.ProductQuantityResponse{}, err
	}
	return dto.ProductQuantityResponse{ID: "abc", ProductID: req.ProductID, NewQuantity: *req.NewQuantity}, nil
}

func (s *stubService) CheckStore(ctx context.Context) error {
	return nil
}

func newTestServer(svc *stubService) *echo.Echo {
	e := echo.New()
	CreateProductController(e.Group("/api"), svc)
	return e
}

func TestController_UpdateProductQuantity(t *testing.T) {
	type TestCase struct {
		Name           string
		Body           string
		ExpectedStatus int
		ExpectedBody   string
	}

	svc := &stubService{failures: map[string]error{
		"P9":     fmt.Errorf("%w: %s", errs.ErrProductNotFound, "P9"),
		"broken": fmt.Errorf("%w: %s", errs.ErrDataIntegrity, "broken"),
		"busy":   fmt.Errorf("%w: %s", errs.ErrConflict, "busy"),
		"down":   fmt.Errorf("%w: %w", errs.ErrInternalServer, errors.New("server selection timeout")),
	}}
	e := newTestServer(svc)

	testCases := []TestCase{
		{
			Name:           "Valid request",
			Body:           `{"productId":"P1","newQuantity":5}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "Product updated: P1 with new quantity: 5",
		},
		{
			Name:           "Zero quantity",
			Body:           `{"productId":"P1","newQuantity":0}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "Product updated: P1 with new quantity: 0",
		},
		{
			Name:           "Whole float quantity",
			Body:           `{"productId":"P1","newQuantity":5.0}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "Product updated: P1 with new quantity: 5",
		},
		{
			Name:           "Numeric string quantity",
			Body:           `{"productId":"P1","newQuantity":"5"}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "Product updated: P1 with new quantity: 5",
		},
		{
			Name:           "Numeric productId",
			Body:           `{"productId":123,"newQuantity":5}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "Product updated: 123 with new quantity: 5",
		},
		{
			Name:           "Missing productId",
			Body:           `{"newQuantity":1}`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   "Invalid input.",
		},
		{
			Name:           "Null newQuantity",
			Body:           `{"productId":"P1","newQuantity":null}`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   "Invalid input.",
		},
		{
			Name:           "Product not found",
			Body:           `{"productId":"P9","newQuantity":1}`,
			ExpectedStatus: http.StatusNotFound,
			ExpectedBody:   "Product not found: P9",
		},
		{
			Name:           "Document without id",
			Body:           `{"productId":"broken","newQuantity":1}`,
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedBody:   "",
		},
		{
			Name:           "Concurrent modification",
			Body:           `{"productId":"busy","newQuantity":1}`,
			ExpectedStatus: http.StatusConflict,
			ExpectedBody:   "Product was modified concurrently: busy",
		},
		{
			Name:           "Store failure",
			Body:           `{"productId":"down","newQuantity":1}`,
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedBody:   "",
		},
	}

	for _, tc := range testCases {
		for _, path := range []string{"/api/UpdateProductQuantity", "/api/v1/products/quantity"} {
			t.Run(tc.Name+" "+path, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(tc.Body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				rec := httptest.NewRecorder()

				e.ServeHTTP(rec, req)

				assert.Equal(t, tc.ExpectedStatus, rec.Code)
				assert.Equal(t, tc.ExpectedBody, rec.Body.String())
			})
		}
	}
}

func TestController_MalformedBodyNeverReachesService(t *testing.T) {
	testCases := []struct {
		Name string
		Body string
	}{
		{Name: "not json", Body: `productId=P1`},
		{Name: "empty body", Body: ``},
		{Name: "string quantity", Body: `{"productId":"P1","newQuantity":"five"}`},
		{Name: "fractional quantity", Body: `{"productId":"P1","newQuantity":1.5}`},
		{Name: "boolean quantity", Body: `{"productId":"P1","newQuantity":true}`},
		{Name: "object productId", Body: `{"productId":{"id":"P1"},"newQuantity":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc := &stubService{}
			e := newTestServer(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/UpdateProductQuantity", strings.NewReader(tc.Body))
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid input.", rec.Body.String())
			assert.Equal(t, 0, svc.calls)
		})
	}
}

func TestController_MalformedBodyLoggedAsWarning(t *testing.T) {
	svc := &stubService{}
	e := newTestServer(svc)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodPost, "/api/UpdateProductQuantity", strings.NewReader(`{"productId":"P1","newQuantity":"five"}`))
	req = req.WithContext(logger.WithContext(req.Context()))
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "invalid request body", entry["message"])
	assert.Equal(t, "UpdateProductQuantity", entry["component"])
}

func TestController_BodyWithoutContentType(t *testing.T) {
	svc := &stubService{}
	e := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/UpdateProductQuantity", strings.NewReader(`{"productId":"P1","newQuantity":2}`))
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product updated: P1 with new quantity: 2", rec.Body.String())
}
