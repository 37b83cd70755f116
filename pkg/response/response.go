package response

import (
	"net/http"

	"github.com/alimikegami/point-of-sales/product-quantity-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

func WriteSuccessResponse(c echo.Context, message string) error {
	return c.String(http.StatusOK, message)
}

// WriteErrorResponse writes the error message as a plain-text body. Server
// errors are written without a body so store details are never exposed.
func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)
	if statusCode >= http.StatusInternalServerError {
		return c.NoContent(statusCode)
	}

	return c.String(statusCode, err.Error())
}
