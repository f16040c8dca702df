package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"bharathbhent-backend/internal/models"
)

type OrderRepository struct {
	client       *mongo.Client
	orders       *mongo.Collection
	products     *mongo.Collection
	carts        *mongo.Collection
	transactions bool
}

// NewOrderRepository places orders inside a multi-document transaction when
// transactions is true. Transactions need a replica set.
func NewOrderRepository(m *MongoDB, transactions bool) *OrderRepository {
	return &OrderRepository{
		client:       m.Client,
		orders:       m.Orders,
		products:     m.Products,
		carts:        m.Carts,
		transactions: transactions,
	}
}

// Place stores the order, takes its quantities out of stock and deletes the
// owner's cart.
func (r *OrderRepository) Place(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if r.transactions {
		return r.placeTx(ctx, o)
	}
	return r.placeBestEffort(ctx, o)
}

func (r *OrderRepository) placeTx(ctx context.Context, o *models.Order) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.orders.InsertOne(sc, o); err != nil {
			return nil, err
		}
		for _, it := range o.Items {
			res, err := r.products.UpdateOne(sc,
				bson.M{"_id": it.Product, "stock": bson.M{"$gte": it.Quantity}},
				bson.M{"$inc": bson.M{"stock": -it.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, fmt.Errorf("%w: product %s", ErrInsufficientStock, it.Product.Hex())
			}
		}
		if _, err := r.carts.DeleteOne(sc, bson.M{"user": o.User}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// placeBestEffort is used against standalone servers. Once the order is in,
// every decrement and the cart delete are attempted; failures are logged and
// not rolled back.
func (r *OrderRepository) placeBestEffort(ctx context.Context, o *models.Order) error {
	if _, err := r.orders.InsertOne(ctx, o); err != nil {
		return translate(err)
	}

	var g errgroup.Group
	for _, it := range o.Items {
		it := it
		g.Go(func() error {
			_, err := r.products.UpdateOne(ctx,
				bson.M{"_id": it.Product},
				bson.M{"$inc": bson.M{"stock": -it.Quantity}},
			)
			if err != nil {
				log.Error().Err(err).Str("order", o.ID.Hex()).Str("product", it.Product.Hex()).Msg("stock decrement failed")
			}
			return err
		})
	}
	g.Go(func() error {
		_, err := r.carts.DeleteOne(ctx, bson.M{"user": o.User})
		if err != nil {
			log.Error().Err(err).Str("order", o.ID.Hex()).Msg("cart delete failed")
		}
		return err
	})
	_ = g.Wait()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.orders.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	set := bson.M{"orderStatus": status}
	if deliveredAt != nil {
		set["deliveredAt"] = *deliveredAt
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o models.Order
	if err := r.orders.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
