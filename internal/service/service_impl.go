package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/metrics"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-quantity-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attempts of the read-modify-write when the store reports a concurrent write.
const maxConflictAttempts = 3

type ProductServiceImpl struct {
	mongoDBRepo repository.MongoDBProductRepository
	publisher   EventPublisher
	tracer      trace.Tracer
}

func CreateProductService(mongoDBRepo repository.MongoDBProductRepository, publisher EventPublisher) ProductService {
	return &ProductServiceImpl{
		mongoDBRepo: mongoDBRepo,
		publisher:   publisher,
		tracer:      otel.Tracer("product-quantity-service"),
	}
}

func (s *ProductServiceImpl) UpdateProductQuantity(ctx context.Context, req dto.ProductQuantityRequest) (resp dto.ProductQuantityResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProductQuantity",
		trace.WithAttributes(attribute.String("product.id", req.ProductID)))
	defer func() {
		metrics.QuantityUpdates.WithLabelValues(outcomeOf(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !req.IsValid() {
		return resp, errs.ErrClient
	}

	for attempt := 1; ; attempt++ {
		resp, err = s.updateQuantity(ctx, req.ProductID, *req.NewQuantity)
		if !errors.Is(err, errs.ErrConflict) || attempt == maxConflictAttempts {
			break
		}

		log.Ctx(ctx).Warn().Str("component", "UpdateProductQuantity").Str("product_id", req.ProductID).
			Msgf("concurrent write detected (attempt %d/%d), retrying", attempt, maxConflictAttempts)
	}

	if err != nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventID:   ulid.Make().String(),
		EventType: dto.EventProductQuantityUpdated,
		Data:      resp,
	}

	// the replace is committed; a lost event must not fail the request
	if pubErr := s.publisher.Publish(ctx, resp.ProductID, kafkaMsg); pubErr != nil {
		log.Ctx(ctx).Error().Err(pubErr).Str("component", "UpdateProductQuantity").Str("product_id", resp.ProductID).
			Msg("Failed to publish quantity update event")
	}

	return resp, nil
}

func (s *ProductServiceImpl) updateQuantity(ctx context.Context, productID string, newQuantity int64) (resp dto.ProductQuantityResponse, err error) {
	product, found, err := s.mongoDBRepo.GetProductByProductID(ctx, productID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProductQuantity").Msgf("Could not update product: %v", err)
		return resp, fmt.Errorf("%w: %w", errs.ErrInternalServer, err)
	}

	if !found {
		return resp, fmt.Errorf("%w: %s", errs.ErrProductNotFound, productID)
	}

	product.Quantity = newQuantity

	if product.ID == "" {
		log.Ctx(ctx).Error().Str("component", "UpdateProductQuantity").
			Msgf("The product item with productId %s does not contain an 'id' field.", productID)
		return resp, fmt.Errorf("%w: %s", errs.ErrDataIntegrity, productID)
	}

	result, err := s.mongoDBRepo.ReplaceProduct(ctx, product)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProductQuantity").Msgf("Could not update product: %v", err)
		return resp, fmt.Errorf("%w: %w", errs.ErrInternalServer, err)
	}

	switch result {
	case repository.ReplaceApplied:
		return dto.ProductQuantityResponse{
			ID:          product.ID,
			ProductID:   productID,
			NewQuantity: newQuantity,
		}, nil
	case repository.ReplaceNotFound:
		return resp, fmt.Errorf("%w: %s", errs.ErrProductNotFound, productID)
	case repository.ReplaceConflict:
		return resp, fmt.Errorf("%w: %s", errs.ErrConflict, productID)
	}

	return resp, fmt.Errorf("%w: unexpected replace result %s", errs.ErrInternalServer, result)
}

func (s *ProductServiceImpl) CheckStore(ctx context.Context) (err error) {
	return s.mongoDBRepo.Ping(ctx)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeUpdated
	case errors.Is(err, errs.ErrClient):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, errs.ErrProductNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, errs.ErrDataIntegrity):
		return metrics.OutcomeDataIntegrity
	case errors.Is(err, errs.ErrConflict):
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeError
}
