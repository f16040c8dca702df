package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/events"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type CreateOrderInput struct {
	ShippingInfo models.ShippingInfo
	PaymentInfo  models.PaymentInfo
	PromoCode    string
}

type OrderService struct {
	carts     CartStore
	products  ProductStore
	orders    OrderStore
	cache     ProductCache
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(carts CartStore, products ProductStore, orders OrderStore, c ProductCache, publisher events.Publisher) *OrderService {
	return &OrderService{
		carts:     carts,
		products:  products,
		orders:    orders,
		cache:     c,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateOrder turns the caller's cart into an order. Line prices are frozen
// at the product's current unit price.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (*models.Order, error) {
	if err := validateCheckout(&in); err != nil {
		return nil, err
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, apperr.New(apperr.BadRequest, "No items in cart")
	}
	if err != nil {
		return nil, internal("find cart", err)
	}

	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, internal("resolve cart products", err)
	}
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		p, ok := products[line.Product]
		if !ok {
			return nil, apperr.Newf(apperr.NotFound, "Product not found with id of %s", line.Product.Hex())
		}
		items = append(items, models.OrderItem{
			Product:  p.ID,
			Name:     p.Name,
			Quantity: line.Quantity,
			Price:    p.UnitPrice(),
		})
	}

	pricing := PriceOrder(items, in.PromoCode)
	order := &models.Order{
		User:          userID,
		Items:         items,
		ShippingInfo:  in.ShippingInfo,
		PaymentInfo:   in.PaymentInfo,
		ItemsPrice:    pricing.ItemsPrice,
		TaxPrice:      pricing.TaxPrice,
		ShippingPrice: pricing.ShippingPrice,
		Discount:      pricing.Discount,
		TotalPrice:    pricing.TotalPrice,
		PromoCode:     in.PromoCode,
		OrderStatus:   models.StatusProcessing,
		CreatedAt:     s.now(),
	}

	if err := s.orders.Place(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, errNotEnoughStock()
		}
		return nil, internal("place order", err)
	}
	log.Info().Str("order", order.ID.Hex()).Str("user", userID.Hex()).Float64("total", order.TotalPrice).Msg("order placed")

	s.invalidate(ctx, order.Items)
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

func validateCheckout(in *CreateOrderInput) error {
	si := &in.ShippingInfo
	if si.Address == "" || si.City == "" || si.State == "" || si.PinCode == "" || si.PhoneNo == "" {
		return apperr.New(apperr.Validation, "Please provide complete shipping info")
	}
	if si.Country == "" {
		si.Country = models.DefaultCountry
	}
	pi := in.PaymentInfo
	if pi.ID == "" || pi.Status == "" {
		return apperr.New(apperr.Validation, "Please provide payment info")
	}
	if !pi.Method.Valid() {
		return apperr.Newf(apperr.Validation, "Invalid payment method %q", pi.Method)
	}
	return nil
}

// GetOrder is open to the order's owner and to admins.
func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID, caller auth.Identity) (*models.Order, error) {
	if caller.Kind == auth.Anonymous {
		return nil, apperr.New(apperr.Unauthorized, "Not authorized to access this order")
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found with id of "+id.Hex(), "find order")
	}
	if !caller.IsAdmin() && !(caller.IsUser() && o.User == caller.ID) {
		return nil, apperr.New(apperr.Unauthorized, "Not authorized to access this order")
	}
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("list user orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return orders, nil
}

// UpdateStatus sets any valid status; there is no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Newf(apperr.Validation, "Invalid order status %q", status)
	}
	var deliveredAt *time.Time
	if status == models.StatusDelivered {
		now := s.now()
		deliveredAt = &now
	}
	o, err := s.orders.UpdateStatus(ctx, id, status, deliveredAt)
	if err != nil {
		return nil, notFoundOr(err, "Order not found with id of "+id.Hex(), "update order")
	}
	log.Info().Str("order", id.Hex()).Str("status", string(status)).Msg("order status changed")
	s.publish(ctx, events.OrderUpdated, o)
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Order not found with id of "+id.Hex(), "find order")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Order not found with id of "+id.Hex(), "delete order")
	}
	s.publish(ctx, events.OrderDeleted, o)
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, items []models.OrderItem) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Product.Hex()
	}
	if err := s.cache.Del(ctx, ids...); err != nil {
		log.Warn().Err(err).Strs("products", ids).Msg("product cache invalidate")
	}
}

func (s *OrderService) publish(ctx context.Context, t events.Type, o *models.Order) {
	ev := events.OrderEvent{Type: t, Order: o, At: s.now()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("order", o.ID.Hex()).Str("event", string(t)).Msg("publish order event")
	}
}
