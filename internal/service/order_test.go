package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/events"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

func TestCreateOrderFromCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := e.product(t, "Brass lamp", 600, 10)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	o, err := e.orders.CreateOrder(ctx, u.ID, checkout())
	require.NoError(t, err)

	assert.Equal(t, 1200.0, o.ItemsPrice)
	assert.Equal(t, 0.0, o.ShippingPrice)
	assert.Equal(t, 216.0, o.TaxPrice)
	assert.Equal(t, 1416.0, o.TotalPrice)
	assert.Equal(t, 0.0, o.Discount)
	assert.Equal(t, models.StatusProcessing, o.OrderStatus)
	assert.Equal(t, models.DefaultCountry, o.ShippingInfo.Country)
	assert.Equal(t, e.clock.t, o.CreatedAt)
	require.Len(t, o.Items, 1)
	assert.Equal(t, models.OrderItem{Product: p.ID, Name: "Brass lamp", Quantity: 2, Price: 600}, o.Items[0])

	stored, err := e.db.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)

	_, err = e.db.Carts().FindByUser(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, e.events.got, 1)
	assert.Equal(t, events.OrderCreated, e.events.got[0].Type)
	assert.Contains(t, e.cache.deleted, p.ID.Hex())
}

func TestCreateOrderUsesDiscountPriceAndPromo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := &models.Product{Name: "Gift box", Description: "x", Price: 1000, DiscountPercentage: 20, Stock: 5, Category: models.CategoryCorporateGifting}
	p.ApplyDiscount()
	require.NoError(t, e.db.Products().Create(ctx, p))
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	in := checkout()
	in.PromoCode = "RAM10"
	o, err := e.orders.CreateOrder(ctx, u.ID, in)
	require.NoError(t, err)

	assert.Equal(t, 800.0, o.Items[0].Price)
	assert.Equal(t, 800.0, o.ItemsPrice)
	assert.Equal(t, 100.0, o.ShippingPrice)
	assert.Equal(t, 80.0, o.Discount)
	assert.Equal(t, 964.0, o.TotalPrice)
}

func TestPromoCodeMustMatchExactly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := e.product(t, "Brass lamp", 600, 10)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	in := checkout()
	in.PromoCode = " RAM10 "
	o, err := e.orders.CreateOrder(ctx, u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, o.Discount)
	assert.Equal(t, 1416.0, o.TotalPrice)
}

func TestOrderSnapshotSurvivesPriceChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := e.product(t, "Brass lamp", 600, 10)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	o, err := e.orders.CreateOrder(ctx, u.ID, checkout())
	require.NoError(t, err)

	price := 900.0
	_, err = e.catalog.Update(ctx, p.ID, ProductInput{Price: &price})
	require.NoError(t, err)

	got, err := e.orders.GetOrder(ctx, o.ID, auth.NewUser(u.ID))
	require.NoError(t, err)
	assert.Equal(t, 600.0, got.Items[0].Price)
	assert.Equal(t, o.TotalPrice, got.TotalPrice)
}

func TestCreateOrderWithoutItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")

	_, err := e.orders.CreateOrder(ctx, u.ID, checkout())
	requireKind(t, err, apperr.BadRequest)

	p := e.product(t, "Brass lamp", 600, 10)
	cart, err := e.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	_, err = e.carts.RemoveItem(ctx, u.ID, cart.Items[0].ID)
	require.NoError(t, err)

	_, err = e.orders.CreateOrder(ctx, u.ID, checkout())
	requireKind(t, err, apperr.BadRequest)
	assert.Empty(t, e.events.got)
}

func TestCreateOrderStockRace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := e.product(t, "Brass lamp", 600, 3)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)

	// Another buyer takes stock after the item went into the cart.
	stock := 1
	_, err = e.catalog.Update(ctx, p.ID, ProductInput{Stock: &stock})
	require.NoError(t, err)

	_, err = e.orders.CreateOrder(ctx, u.ID, checkout())
	requireKind(t, err, apperr.InsufficientStock)

	stored, _ := e.db.Products().FindByID(ctx, p.ID)
	assert.Equal(t, 1, stored.Stock)
	_, err = e.db.Carts().FindByUser(ctx, u.ID)
	assert.NoError(t, err, "cart survives a failed checkout")
	orders, _ := e.db.Orders().List(ctx)
	assert.Empty(t, orders)
}

func TestCreateOrderValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")

	in := checkout()
	in.PaymentInfo.Method = "Cheque"
	_, err := e.orders.CreateOrder(ctx, u.ID, in)
	requireKind(t, err, apperr.Validation)

	in = checkout()
	in.ShippingInfo.City = ""
	_, err = e.orders.CreateOrder(ctx, u.ID, in)
	requireKind(t, err, apperr.Validation)
}

func TestCreateOrderDeletedProduct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")
	p := e.product(t, "Brass lamp", 600, 3)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, e.catalog.Delete(ctx, p.ID))

	_, err = e.orders.CreateOrder(ctx, u.ID, checkout())
	requireKind(t, err, apperr.NotFound)
}

func placeOrder(t *testing.T, e *env, u *models.User) *models.Order {
	t.Helper()
	ctx := context.Background()
	p := e.product(t, "Brass lamp", 600, 10)
	_, err := e.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	o, err := e.orders.CreateOrder(ctx, u.ID, checkout())
	require.NoError(t, err)
	return o
}

func TestUpdateStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := placeOrder(t, e, e.user(t, "asha@example.com"))

	got, err := e.orders.UpdateStatus(ctx, o.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.OrderStatus)
	assert.Nil(t, got.DeliveredAt)

	e.clock.advance(48 * time.Hour)
	got, err = e.orders.UpdateStatus(ctx, o.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.Equal(t, e.clock.t, *got.DeliveredAt)

	// No transition graph: a delivered order may go back to processing.
	got, err = e.orders.UpdateStatus(ctx, o.ID, models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.OrderStatus)

	_, err = e.orders.UpdateStatus(ctx, o.ID, "Lost")
	requireKind(t, err, apperr.Validation)

	_, err = e.orders.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusShipped)
	requireKind(t, err, apperr.NotFound)

	assert.Equal(t, events.OrderUpdated, e.events.got[len(e.events.got)-1].Type)
}

func TestGetOrderAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "asha@example.com")
	other := e.user(t, "ravi@example.com")
	o := placeOrder(t, e, owner)

	_, err := e.orders.GetOrder(ctx, o.ID, auth.NewUser(owner.ID))
	assert.NoError(t, err)

	_, err = e.orders.GetOrder(ctx, o.ID, auth.NewAdmin(primitive.NewObjectID(), false))
	assert.NoError(t, err)

	_, err = e.orders.GetOrder(ctx, o.ID, auth.NewUser(other.ID))
	requireKind(t, err, apperr.Unauthorized)

	_, err = e.orders.GetOrder(ctx, o.ID, auth.Identity{})
	requireKind(t, err, apperr.Unauthorized)
	_, err = e.orders.GetOrder(ctx, primitive.NewObjectID(), auth.Identity{})
	requireKind(t, err, apperr.Unauthorized)

	_, err = e.orders.GetOrder(ctx, primitive.NewObjectID(), auth.NewUser(owner.ID))
	requireKind(t, err, apperr.NotFound)
}

func TestListAndDeleteOrders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	asha := e.user(t, "asha@example.com")
	ravi := e.user(t, "ravi@example.com")
	o1 := placeOrder(t, e, asha)
	placeOrder(t, e, ravi)

	mine, err := e.orders.ListMine(ctx, asha.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o1.ID, mine[0].ID)

	all, err := e.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, e.orders.Delete(ctx, o1.ID))
	requireKind(t, e.orders.Delete(ctx, o1.ID), apperr.NotFound)
	assert.Equal(t, events.OrderDeleted, e.events.got[len(e.events.got)-1].Type)

	mine, err = e.orders.ListMine(ctx, asha.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
