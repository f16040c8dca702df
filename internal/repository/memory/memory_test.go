package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

func TestPlaceIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := New()
	p1 := &models.Product{Name: "Brass lamp", Price: 600, Stock: 10}
	p2 := &models.Product{Name: "Tea set", Price: 200, Stock: 1}
	require.NoError(t, db.Products().Create(ctx, p1))
	require.NoError(t, db.Products().Create(ctx, p2))

	user := primitive.NewObjectID()
	require.NoError(t, db.Carts().Create(ctx, &models.Cart{User: user}))

	err := db.Orders().Place(ctx, &models.Order{User: user, Items: []models.OrderItem{
		{Product: p1.ID, Quantity: 2},
		{Product: p2.ID, Quantity: 3},
	}})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	got, _ := db.Products().FindByID(ctx, p1.ID)
	assert.Equal(t, 10, got.Stock)
	_, err = db.Carts().FindByUser(ctx, user)
	assert.NoError(t, err)

	o := &models.Order{User: user, Items: []models.OrderItem{{Product: p1.ID, Quantity: 2}}}
	require.NoError(t, db.Orders().Place(ctx, o))
	got, _ = db.Products().FindByID(ctx, p1.ID)
	assert.Equal(t, 8, got.Stock)
	_, err = db.Carts().FindByUser(ctx, user)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := New()
	user := primitive.NewObjectID()
	require.NoError(t, db.Carts().Create(ctx, &models.Cart{User: user}))
	assert.ErrorIs(t, db.Carts().Create(ctx, &models.Cart{User: user}), repository.ErrDuplicate)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := &models.User{Name: "Asha", Email: "asha@example.com", Mobile: "9000000001"}
	require.NoError(t, db.Users().Create(ctx, u))

	got, err := db.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, _ := db.Users().FindByID(ctx, u.ID)
	assert.Equal(t, "Asha", again.Name)
}

func TestOTPConsumeRemoves(t *testing.T) {
	ctx := context.Background()
	otps := New().OTPs()
	require.NoError(t, otps.Create(ctx, &models.OTP{Email: "a@b.c", Code: "123456"}))
	require.NoError(t, otps.Create(ctx, &models.OTP{Email: "a@b.c", Code: "654321"}))

	_, err := otps.Consume(ctx, "a@b.c", "123456")
	require.NoError(t, err)
	_, err = otps.Consume(ctx, "a@b.c", "123456")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, otps.Len())
}

func TestOTPCreateDropsExpiredCodes(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.ExpireOTPsAfter(5 * time.Minute)
	otps := db.OTPs()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, otps.Create(ctx, &models.OTP{Email: "a@b.c", Code: "111111", CreatedAt: start}))
	require.NoError(t, otps.Create(ctx, &models.OTP{Email: "a@b.c", Code: "222222", CreatedAt: start.Add(4 * time.Minute)}))
	assert.Equal(t, 2, otps.Len())

	require.NoError(t, otps.Create(ctx, &models.OTP{Email: "x@y.z", Code: "333333", CreatedAt: start.Add(6 * time.Minute)}))
	assert.Equal(t, 2, otps.Len())
	_, err := otps.Consume(ctx, "a@b.c", "111111")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = otps.Consume(ctx, "a@b.c", "222222")
	assert.NoError(t, err)
}

func TestProductUpdateWritesOnlyPatchedFields(t *testing.T) {
	ctx := context.Background()
	db := New()
	price := 900.0
	p := &models.Product{Name: "Tea set", Price: 1000, DiscountPercentage: 10, DiscountPrice: &price, Stock: 4}
	require.NoError(t, db.Products().Create(ctx, p))

	name := "Copper tea set"
	got, err := db.Products().Update(ctx, p.ID, repository.ProductPatch{
		Name:     &name,
		Discount: &repository.Discount{Percentage: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Copper tea set", got.Name)
	assert.Equal(t, 4, got.Stock)
	assert.Equal(t, 1000.0, got.Price)
	assert.Nil(t, got.DiscountPrice)

	_, err = db.Products().Update(ctx, primitive.NewObjectID(), repository.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
