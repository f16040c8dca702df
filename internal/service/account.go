package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

// AccountService covers the user profile, saved products and the admin's
// view of users.
type AccountService struct {
	users    UserStore
	products ProductStore
}

func NewAccountService(users UserStore, products ProductStore) *AccountService {
	return &AccountService{users: users, products: products}
}

func (s *AccountService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}
	return u, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch repository.ProfilePatch) (*models.User, error) {
	patch.Name = strings.TrimSpace(patch.Name)
	patch.Email = normalizeEmail(patch.Email)
	patch.Mobile = strings.TrimSpace(patch.Mobile)

	u, err := s.users.UpdateProfile(ctx, userID, patch)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.New(apperr.Conflict, "Email or mobile already in use")
	}
	if err != nil {
		return nil, notFoundOr(err, "User not found", "update user")
	}
	return u, nil
}

// SavedProducts resolves the saved ids in the order they were saved,
// skipping products that have since been deleted.
func (s *AccountService) SavedProducts(ctx context.Context, userID primitive.ObjectID) ([]models.Product, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}
	found, err := s.products.FindByIDs(ctx, u.SavedProducts)
	if err != nil {
		return nil, internal("resolve saved products", err)
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range u.SavedProducts {
		if p, ok := found[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *AccountService) SaveProduct(ctx context.Context, userID, productID primitive.ObjectID) ([]primitive.ObjectID, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}
	if u.HasSaved(productID) {
		return nil, apperr.New(apperr.BadRequest, "Product already saved")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, notFoundOr(err, "Product not found", "find product")
	}
	u, err = s.users.AddSaved(ctx, userID, productID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "save product")
	}
	return u.SavedProducts, nil
}

func (s *AccountService) RemoveSavedProduct(ctx context.Context, userID, productID primitive.ObjectID) ([]primitive.ObjectID, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}
	if !u.HasSaved(productID) {
		return nil, apperr.New(apperr.BadRequest, "Product not saved")
	}
	u, err = s.users.RemoveSaved(ctx, userID, productID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "remove saved product")
	}
	return u.SavedProducts, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internal("list users", err)
	}
	return users, nil
}

func (s *AccountService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.Profile(ctx, id)
}
