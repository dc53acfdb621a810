package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/divergence"
	pkgmongo "MarketDash/pkg/mongo"
)

// MongoMarketData implements MarketDataRepository over the analysis collection.
type MongoMarketData struct {
	coll    *mongo.Collection
	timeout func(context.Context) (context.Context, context.CancelFunc)
}

var _ domrepo.MarketDataRepository = (*MongoMarketData)(nil)

func NewMongoMarketData(c *pkgmongo.Client, collection string) *MongoMarketData {
	return &MongoMarketData{coll: c.Collection(collection), timeout: withTimeout(c)}
}

func (r *MongoMarketData) Recent(ctx context.Context, limit int) ([]models.MarketDataEntry, error) {
	docs, err := r.find(ctx, limit, nil)
	if err != nil {
		return nil, fmt.Errorf("recent market data: %w", err)
	}

	out := make([]models.MarketDataEntry, len(docs))
	// newest first from the query; callers chart oldest first
	for i, doc := range docs {
		out[len(docs)-1-i] = decodeMarketData(doc)
	}
	return out, nil
}

func (r *MongoMarketData) Latest(ctx context.Context) (*models.MarketDataEntry, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest market data: %w", err)
	}
	e := decodeMarketData(doc)
	return &e, nil
}

func (r *MongoMarketData) SymbolHistory(ctx context.Context, symbol string, limit int) ([]models.SymbolPoint, error) {
	field := "analysis.detailed_results." + symbol
	docs, err := r.find(ctx, limit, bson.M{"timestamp": 1, field: 1})
	if err != nil {
		return nil, fmt.Errorf("symbol history %s: %w", symbol, err)
	}

	out := make([]models.SymbolPoint, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		e := decodeMarketData(docs[i])
		rec, ok := e.Analysis.DetailedResults[symbol].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.SymbolPoint{
			Timestamp:      e.Timestamp,
			SymbolSnapshot: divergence.SymbolFromRecord(symbol, rec),
		})
	}
	return out, nil
}

func (r *MongoMarketData) find(ctx context.Context, limit int, projection bson.M) ([]bson.M, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	if projection != nil {
		opts.SetProjection(projection)
	}

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func withTimeout(c *pkgmongo.Client) func(context.Context) (context.Context, context.CancelFunc) {
	d := c.Timeout()
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		if d <= 0 {
			return context.WithCancel(ctx)
		}
		return context.WithTimeout(ctx, d)
	}
}
