package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
)

type ProductService interface {
	UpdateProductQuantity(ctx context.Context, req dto.ProductQuantityRequest) (resp dto.ProductQuantityResponse, err error)
	CheckStore(ctx context.Context) (err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}
