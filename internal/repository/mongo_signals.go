package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	pkgmongo "MarketDash/pkg/mongo"
)

// MongoSignals implements SignalRepository.
type MongoSignals struct {
	coll    *mongo.Collection
	timeout func(context.Context) (context.Context, context.CancelFunc)
}

var _ domrepo.SignalRepository = (*MongoSignals)(nil)

func NewMongoSignals(c *pkgmongo.Client, collection string) *MongoSignals {
	return &MongoSignals{coll: c.Collection(collection), timeout: withTimeout(c)}
}

func (r *MongoSignals) Recent(ctx context.Context, limit int) ([]models.TradingSignal, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find trading signals: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode trading signals: %w", err)
	}

	out := make([]models.TradingSignal, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decodeSignal(doc))
	}
	return out, nil
}
