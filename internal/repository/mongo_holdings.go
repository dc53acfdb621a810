package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	pkgmongo "MarketDash/pkg/mongo"
)

// MongoHoldings implements HoldingsRepository. Filtering happens in the use
// case so the response can report how many records were skipped.
type MongoHoldings struct {
	coll    *mongo.Collection
	timeout func(context.Context) (context.Context, context.CancelFunc)
}

var _ domrepo.HoldingsRepository = (*MongoHoldings)(nil)

func NewMongoHoldings(c *pkgmongo.Client, collection string) *MongoHoldings {
	return &MongoHoldings{coll: c.Collection(collection), timeout: withTimeout(c)}
}

func (r *MongoHoldings) All(ctx context.Context) ([]models.Position, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find holdings: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode holdings: %w", err)
	}

	out := make([]models.Position, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decodePosition(doc))
	}
	return out, nil
}
