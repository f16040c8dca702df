// Package memory keeps every store in process memory. It backs the tests and
// the STORE=memory development mode, and places orders atomically.
package memory

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
)

type DB struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	admins   map[primitive.ObjectID]*models.Admin
	otps     []*models.OTP
	otpTTL   time.Duration
	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart // keyed by user
	orders   map[primitive.ObjectID]*models.Order
}

func New() *DB {
	return &DB{
		users:    map[primitive.ObjectID]*models.User{},
		admins:   map[primitive.ObjectID]*models.Admin{},
		products: map[primitive.ObjectID]*models.Product{},
		carts:    map[primitive.ObjectID]*models.Cart{},
		orders:   map[primitive.ObjectID]*models.Order{},
	}
}

// ExpireOTPsAfter drops codes older than ttl whenever a new one is stored,
// the way the TTL index does for MongoDB. Zero keeps every code.
func (db *DB) ExpireOTPsAfter(ttl time.Duration) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.otpTTL = ttl
}

func (db *DB) Users() *Users       { return &Users{db} }
func (db *DB) Admins() *Admins     { return &Admins{db} }
func (db *DB) OTPs() *OTPs         { return &OTPs{db} }
func (db *DB) Products() *Products { return &Products{db} }
func (db *DB) Carts() *Carts       { return &Carts{db} }
func (db *DB) Orders() *Orders     { return &Orders{db} }

func cloneUser(u *models.User) *models.User {
	c := *u
	c.SavedProducts = append([]primitive.ObjectID{}, u.SavedProducts...)
	return &c
}

func cloneAdmin(a *models.Admin) *models.Admin {
	c := *a
	return &c
}

func cloneProduct(p *models.Product) *models.Product {
	c := *p
	if p.DiscountPrice != nil {
		v := *p.DiscountPrice
		c.DiscountPrice = &v
	}
	c.Images = append([]models.Image{}, p.Images...)
	c.Reviews = append([]models.Review{}, p.Reviews...)
	return &c
}

func cloneCart(k *models.Cart) *models.Cart {
	c := *k
	c.Items = append([]models.CartItem{}, k.Items...)
	return &c
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem{}, o.Items...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		c.DeliveredAt = &t
	}
	return &c
}
