package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type Carts struct{ db *DB }

func (r *Carts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCart(c), nil
}

func (r *Carts) Create(_ context.Context, c *models.Cart) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.carts[c.User]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	c.CreatedAt, c.UpdatedAt = now, now
	r.db.carts[c.User] = cloneCart(c)
	return nil
}

func (r *Carts) Save(_ context.Context, c *models.Cart) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.carts[c.User]
	if !ok || cur.ID != c.ID {
		return repository.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.db.carts[c.User] = cloneCart(c)
	return nil
}

func (r *Carts) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.carts, userID)
	return nil
}

type Orders struct{ db *DB }

// Place applies the order under one lock: all stock is checked before any is
// taken, so a failed placement changes nothing.
func (r *Orders) Place(_ context.Context, o *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	need := map[primitive.ObjectID]int{}
	for _, it := range o.Items {
		need[it.Product] += it.Quantity
	}
	for id, qty := range need {
		p, ok := r.db.products[id]
		if !ok || p.Stock < qty {
			return fmt.Errorf("%w: product %s", repository.ErrInsufficientStock, id.Hex())
		}
	}
	for id, qty := range need {
		r.db.products[id].Stock -= qty
	}

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	r.db.orders[o.ID] = cloneOrder(o)
	delete(r.db.carts, o.User)
	return nil
}

func (r *Orders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *Orders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.list(func(o *models.Order) bool { return o.User == userID }), nil
}

func (r *Orders) List(_ context.Context) ([]models.Order, error) {
	return r.list(func(*models.Order) bool { return true }), nil
}

func (r *Orders) list(keep func(*models.Order) bool) []models.Order {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.db.orders {
		if keep(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *Orders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.OrderStatus = status
	if deliveredAt != nil {
		t := *deliveredAt
		o.DeliveredAt = &t
	}
	return cloneOrder(o), nil
}

func (r *Orders) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.orders, id)
	return nil
}
