package repository

import (
	"context"
	"errors"

	"github.com/alimikegami/point-of-sales/product-quantity-service/config"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDBProductRepositoryImpl struct {
	db          *mongo.Database
	collection  *mongo.Collection
	conditional bool
}

func CreateNewMongoDBRepository(db *mongo.Database, conf config.MongoDBConfig) MongoDBProductRepository {
	return &MongoDBProductRepositoryImpl{
		db:          db,
		collection:  db.Collection(conf.CollectionName),
		conditional: conf.OptimisticConcurrency,
	}
}

func (r *MongoDBProductRepositoryImpl) GetProductByProductID(ctx context.Context, productID string) (product domain.Product, found bool, err error) {
	filter := bson.D{{Key: domain.FieldProductID, Value: productID}}

	err = r.collection.FindOne(ctx, filter, options.FindOne()).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, false, nil
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByProductID").Msg("")
		return product, false, err
	}

	return product, true, nil
}

func (r *MongoDBProductRepositoryImpl) ReplaceProduct(ctx context.Context, data domain.Product) (result ReplaceResult, err error) {
	filter := bson.D{
		{Key: domain.FieldID, Value: data.ID},
		{Key: domain.FieldProductID, Value: data.ProductID},
	}

	if r.conditional {
		if data.ETag == "" {
			filter = append(filter, bson.E{Key: domain.FieldETag, Value: bson.D{{Key: "$exists", Value: false}}})
		} else {
			filter = append(filter, bson.E{Key: domain.FieldETag, Value: data.ETag})
		}
		data.ETag = uuid.NewString()
	}

	res, err := r.collection.ReplaceOne(ctx, filter, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ReplaceProduct").Msg("Failed to replace product")
		return
	}

	if res.MatchedCount > 0 {
		return ReplaceApplied, nil
	}

	if !r.conditional {
		return ReplaceNotFound, nil
	}

	count, err := r.collection.CountDocuments(ctx, filter[:2], options.Count().SetLimit(1))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ReplaceProduct").Msg("Failed to check product existence")
		return
	}

	if count > 0 {
		return ReplaceConflict, nil
	}

	return ReplaceNotFound, nil
}

func (r *MongoDBProductRepositoryImpl) Ping(ctx context.Context) (err error) {
	err = r.db.Client().Ping(ctx, readpref.Primary())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Ping").Msg("")
	}

	return
}
