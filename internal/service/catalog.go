package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/cache"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

// ProductInput carries admin edits. Nil fields are left unchanged on update;
// on create Name, Description, Price and Category are required.
type ProductInput struct {
	Name               *string
	Description        *string
	Price              *float64
	DiscountPercentage *float64
	Images             []models.Image
	Category           *models.Category
	Stock              *int
	Dimensions         *models.Dimensions
	Material           *string
	DeliveryTime       *string
	ReturnPolicy       *string
	ShippingPolicy     *string
}

type CatalogService struct {
	products ProductStore
	users    UserStore
	cache    ProductCache
}

func NewCatalogService(products ProductStore, users UserStore, c ProductCache) *CatalogService {
	return &CatalogService{products: products, users: users, cache: c}
}

func (s *CatalogService) List(ctx context.Context, category models.Category) ([]models.Product, error) {
	if category != "" && !category.Valid() {
		return nil, apperr.Newf(apperr.Validation, "Invalid category %q", category)
	}
	products, err := s.products.List(ctx, repository.ProductFilter{Category: category})
	if err != nil {
		return nil, internal("list products", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := s.cache.Get(ctx, id.Hex())
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("product", id.Hex()).Msg("product cache read")
	}

	p, err = s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "find product")
	}
	if err := s.cache.Set(ctx, p); err != nil {
		log.Warn().Err(err).Str("product", id.Hex()).Msg("product cache write")
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.New(apperr.Validation, "Please enter product name")
	}
	if in.Description == nil || *in.Description == "" {
		return nil, apperr.New(apperr.Validation, "Please enter product description")
	}
	if in.Price == nil {
		return nil, apperr.New(apperr.Validation, "Please enter product price")
	}
	if in.Category == nil {
		return nil, apperr.New(apperr.Validation, "Please enter product category")
	}

	p := &models.Product{Stock: models.DefaultStock}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	p.ApplyDefaults()
	p.ApplyDiscount()

	if err := s.products.Create(ctx, p); err != nil {
		return nil, internal("create product", err)
	}
	log.Info().Str("product", p.ID.Hex()).Msg("product created")
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "find product")
	}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	p.ApplyDefaults()

	updated, err := s.products.Update(ctx, id, productPatch(p, in))
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "update product")
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// productPatch takes the normalized values of the fields named in in from p.
// Untouched fields, stock above all, are not written back.
func productPatch(p *models.Product, in ProductInput) repository.ProductPatch {
	var patch repository.ProductPatch
	if in.Name != nil {
		patch.Name = &p.Name
	}
	if in.Description != nil {
		patch.Description = &p.Description
	}
	if in.Price != nil {
		patch.Price = &p.Price
	}
	if in.Images != nil {
		patch.Images = p.Images
	}
	if in.Category != nil {
		patch.Category = &p.Category
	}
	if in.Stock != nil {
		patch.Stock = &p.Stock
	}
	if in.Dimensions != nil {
		patch.Dimensions = &p.Dimensions
	}
	if in.Material != nil {
		patch.Material = &p.Material
	}
	if in.DeliveryTime != nil {
		patch.DeliveryTime = &p.DeliveryTime
	}
	if in.ReturnPolicy != nil {
		patch.ReturnPolicy = &p.ReturnPolicy
	}
	if in.ShippingPolicy != nil {
		patch.ShippingPolicy = &p.ShippingPolicy
	}
	if in.Price != nil || in.DiscountPercentage != nil {
		p.ApplyDiscount()
		patch.Discount = &repository.Discount{Percentage: p.DiscountPercentage, Price: p.DiscountPrice}
	}
	return patch
}

func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Product not found", "delete product")
	}
	s.invalidate(ctx, id)
	log.Info().Str("product", id.Hex()).Msg("product deleted")
	return nil
}

// AddReview records one review per user, replacing any earlier one.
func (s *CatalogService) AddReview(ctx context.Context, userID, productID primitive.ObjectID, rating int, comment string) (*models.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.Validation, "Rating must be between 1 and 5")
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "find product")
	}

	p.UpsertReview(models.Review{User: u.ID, Name: u.Name, Rating: rating, Comment: comment})
	if err := s.products.SaveReviews(ctx, p); err != nil {
		return nil, notFoundOr(err, "Product not found", "save review")
	}
	s.invalidate(ctx, productID)
	return p, nil
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...primitive.ObjectID) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.Hex()
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("products", keys).Msg("product cache invalidate")
	}
}

func applyProductInput(p *models.Product, in ProductInput) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return apperr.New(apperr.Validation, "Price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.DiscountPercentage != nil {
		if *in.DiscountPercentage < 0 || *in.DiscountPercentage > 100 {
			return apperr.New(apperr.Validation, "Discount percentage must be between 0 and 100")
		}
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return apperr.Newf(apperr.Validation, "Invalid category %q", *in.Category)
		}
		p.Category = *in.Category
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return apperr.New(apperr.Validation, "Stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	if in.Dimensions != nil {
		p.Dimensions = *in.Dimensions
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.DeliveryTime != nil {
		p.DeliveryTime = *in.DeliveryTime
	}
	if in.ReturnPolicy != nil {
		p.ReturnPolicy = *in.ReturnPolicy
	}
	if in.ShippingPolicy != nil {
		p.ShippingPolicy = *in.ShippingPolicy
	}
	return nil
}
