package repository

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/domain"
)

// ReplaceResult is the outcome of a full-document replace that reached the store.
type ReplaceResult int

const (
	ReplaceApplied ReplaceResult = iota
	ReplaceNotFound
	ReplaceConflict
)

func (r ReplaceResult) String() string {
	switch r {
	case ReplaceApplied:
		return "applied"
	case ReplaceNotFound:
		return "not_found"
	case ReplaceConflict:
		return "conflict"
	}
	return "unknown"
}

type MongoDBProductRepository interface {
	// GetProductByProductID returns the first document whose productId matches.
	GetProductByProductID(ctx context.Context, productID string) (product domain.Product, found bool, err error)
	// ReplaceProduct overwrites the document keyed by (id, productId) with data.
	ReplaceProduct(ctx context.Context, data domain.Product) (result ReplaceResult, err error)
	Ping(ctx context.Context) (err error)
}
