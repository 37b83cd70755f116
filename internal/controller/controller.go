package controller

import (
	"fmt"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/service"
	"github.com/alimikegami/point-of-sales/product-quantity-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-quantity-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.ProductService
}

// CreateProductController registers the update route on the /api group, once
// under the function name and once under the versioned products path.
func CreateProductController(e *echo.Group, service service.ProductService) {
	c := Controller{
		service: service,
	}
	e.POST("/UpdateProductQuantity", c.UpdateProductQuantity)
	e.POST("/v1/products/quantity", c.UpdateProductQuantity)
}

func (c *Controller) UpdateProductQuantity(e echo.Context) error {
	ctx := e.Request().Context()

	// the body is JSON whatever the Content-Type header says
	payload := dto.ProductQuantityRequest{}
	err := e.Echo().JSONSerializer.Deserialize(e, &payload)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "UpdateProductQuantity").Msg("invalid request body")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	resp, err := c.service.UpdateProductQuantity(ctx, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, fmt.Sprintf("Product updated: %s with new quantity: %d", resp.ProductID, resp.NewQuantity))
}
