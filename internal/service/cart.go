package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func errNotEnoughStock() error {
	return apperr.New(apperr.InsufficientStock, "Not enough stock available")
}

// Get returns the cart with products resolved. A missing or empty cart reads
// as an empty item list.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartDetail, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.CartDetail{Items: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, internal("find cart", err)
	}
	if len(cart.Items) == 0 {
		return &models.CartDetail{Items: []models.CartLine{}}, nil
	}
	return s.detail(ctx, cart)
}

func (s *CartService) detail(ctx context.Context, cart *models.Cart) (*models.CartDetail, error) {
	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, internal("resolve cart products", err)
	}
	d := &models.CartDetail{
		ID:        cart.ID,
		User:      cart.User,
		Items:     make([]models.CartLine, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, it := range cart.Items {
		d.Items = append(d.Items, models.CartLine{ID: it.ID, Product: products[it.Product], Quantity: it.Quantity})
	}
	return d, nil
}

// AddItem checks the requested quantity against stock, not the merged total.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.Validation, "Quantity must be at least 1")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "Product not found with id of "+productID.Hex(), "find product")
	}
	if product.Stock < quantity {
		return nil, errNotEnoughStock()
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := cart.ProductIndex(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ID: primitive.NewObjectID(), Product: productID, Quantity: quantity})
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, notFoundOr(err, "Cart not found", "save cart")
	}
	return cart, nil
}

// loadOrCreate retries the lookup once when a concurrent request created the
// cart between our read and insert.
func (s *CartService) loadOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("find cart", err)
	}

	cart = &models.Cart{User: userID, Items: []models.CartItem{}}
	err = s.carts.Create(ctx, cart)
	if errors.Is(err, repository.ErrDuplicate) {
		cart, err = s.carts.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, internal("create cart", err)
	}
	return cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.Validation, "Quantity must be at least 1")
	}
	cart, i, err := s.findLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, cart.Items[i].Product)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "find product")
	}
	if product.Stock < quantity {
		return nil, errNotEnoughStock()
	}

	cart.Items[i].Quantity = quantity
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, notFoundOr(err, "Cart not found", "save cart")
	}
	return cart, nil
}

// RemoveItem keeps the cart document even when its last line goes.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*models.Cart, error) {
	cart, i, err := s.findLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, notFoundOr(err, "Cart not found", "save cart")
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return internal("clear cart", err)
	}
	return nil
}

func (s *CartService) findLine(ctx context.Context, userID, itemID primitive.ObjectID) (*models.Cart, int, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, -1, notFoundOr(err, "Cart not found", "find cart")
	}
	i := cart.ItemIndex(itemID)
	if i < 0 {
		return nil, -1, apperr.New(apperr.NotFound, "Item not found in cart")
	}
	return cart, i, nil
}
