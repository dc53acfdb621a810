package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	pkgmongo "MarketDash/pkg/mongo"
)

// MongoUsers implements UserRepository over the login collection.
type MongoUsers struct {
	coll    *mongo.Collection
	timeout func(context.Context) (context.Context, context.CancelFunc)
}

var _ domrepo.UserRepository = (*MongoUsers)(nil)

func NewMongoUsers(c *pkgmongo.Client, collection string) *MongoUsers {
	return &MongoUsers{coll: c.Collection(collection), timeout: withTimeout(c)}
}

func (r *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.Credentials, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	creds := decodeCredentials(doc)
	return &creds, nil
}
