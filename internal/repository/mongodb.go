package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type MongoDB struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Admins   *mongo.Collection
	OTPs     *mongo.Collection
	Products *mongo.Collection
	Carts    *mongo.Collection
	Orders   *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Users:    db.Collection("users"),
		Admins:   db.Collection("admins"),
		OTPs:     db.Collection("otps"),
		Products: db.Collection("products"),
		Carts:    db.Collection("carts"),
		Orders:   db.Collection("orders"),
	}, nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and TTL indexes the stores rely on.
// The OTP TTL index only garbage-collects; expiry is checked on verify.
func (m *MongoDB) EnsureIndexes(ctx context.Context, otpTTL time.Duration) error {
	unique := options.Index().SetUnique(true)
	specs := []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{m.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: unique},
		}},
		{m.Admins, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: unique},
		}},
		{m.OTPs, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "code", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(otpTTL.Seconds()))},
		}},
		{m.Products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "category", Value: 1}}},
		}},
		{m.Carts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		}},
		{m.Orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
	}
	for _, s := range specs {
		if _, err := s.col.Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("indexes on %s: %w", s.col.Name(), err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
