package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyDiscount(t *testing.T) {
	p := Product{Price: 1000, DiscountPercentage: 15}
	p.ApplyDiscount()
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, 850.0, *p.DiscountPrice)
	assert.Equal(t, 850.0, p.UnitPrice())

	p.Price = 499.99
	p.DiscountPercentage = 10
	p.ApplyDiscount()
	assert.Equal(t, 449.99, *p.DiscountPrice)

	p.DiscountPercentage = 0
	p.ApplyDiscount()
	assert.Nil(t, p.DiscountPrice)
	assert.Equal(t, 499.99, p.UnitPrice())
}

func TestApplyDefaults(t *testing.T) {
	p := Product{ReturnPolicy: "no returns"}
	p.ApplyDefaults()
	assert.Equal(t, DefaultDeliveryTime, p.DeliveryTime)
	assert.Equal(t, "no returns", p.ReturnPolicy)
	assert.Equal(t, DefaultShippingPolicy, p.ShippingPolicy)
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.Reviews)
}

func TestUpsertReview(t *testing.T) {
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()
	var p Product

	p.UpsertReview(Review{User: u1, Rating: 5})
	p.UpsertReview(Review{User: u2, Rating: 2})
	assert.Equal(t, 2, p.NumOfReviews)
	assert.Equal(t, 3.5, p.Ratings)

	p.UpsertReview(Review{User: u2, Rating: 4})
	assert.Equal(t, 2, p.NumOfReviews)
	assert.Equal(t, 4.5, p.Ratings)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, Category("Gift Card").Valid())
	assert.False(t, Category("Electronics").Valid())
}

func TestOTPExpired(t *testing.T) {
	now := time.Now()
	o := OTP{CreatedAt: now.Add(-4 * time.Minute)}
	assert.False(t, o.Expired(now, 5*time.Minute))
	o.CreatedAt = now.Add(-6 * time.Minute)
	assert.True(t, o.Expired(now, 5*time.Minute))
}

func TestCartIndexes(t *testing.T) {
	p1, p2 := primitive.NewObjectID(), primitive.NewObjectID()
	c := Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), Product: p1, Quantity: 1},
		{ID: primitive.NewObjectID(), Product: p2, Quantity: 2},
	}}
	assert.Equal(t, 1, c.ProductIndex(p2))
	assert.Equal(t, 0, c.ItemIndex(c.Items[0].ID))
	assert.Equal(t, -1, c.ItemIndex(primitive.NewObjectID()))
	assert.Equal(t, []primitive.ObjectID{p1, p2}, c.ProductIDs())
}
