package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bharathbhent-backend/internal/models"
)

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(m *MongoDB) *CartRepository {
	return &CartRepository{col: m.Carts}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	if err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Create fails with ErrDuplicate when the user already owns a cart.
func (r *CartRepository) Create(ctx context.Context, c *models.Cart) error {
	now := time.Now()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, c)
	return translate(err)
}

func (r *CartRepository) Save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = time.Now()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"items":     c.Items,
		"updatedAt": c.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
