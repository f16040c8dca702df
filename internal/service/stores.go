package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

// Store interfaces are satisfied by the mongo repositories and by
// repository/memory.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetVerified(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, p repository.ProfilePatch) (*models.User, error)
	AddSaved(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error)
	RemoveSaved(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error)
}

type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	SetVerified(ctx context.Context, email string) (*models.Admin, error)
}

type OTPStore interface {
	Create(ctx context.Context, o *models.OTP) error
	Consume(ctx context.Context, email, code string) (*models.OTP, error)
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch repository.ProductPatch) (*models.Product, error)
	SaveReviews(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, c *models.Cart) error
	Save(ctx context.Context, c *models.Cart) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type OrderStore interface {
	// Place stores o, takes its quantities out of stock and deletes the
	// owner's cart. It returns repository.ErrInsufficientStock when a
	// conditional decrement fails.
	Place(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Del(ctx context.Context, ids ...string) error
}
