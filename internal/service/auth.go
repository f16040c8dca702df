package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type RegisterUserInput struct {
	Name   string
	Email  string
	Mobile string
}

type RegisterAdminInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
}

// AuthService runs the two sign-in flows: users prove an inbox with an OTP,
// admins additionally hold a password and log in without one.
type AuthService struct {
	users  UserStore
	admins AdminStore
	otp    *OTPService
	tokens *auth.Tokens
	hasher *auth.Hasher
}

func NewAuthService(users UserStore, admins AdminStore, otp *OTPService, tokens *auth.Tokens, hasher *auth.Hasher) *AuthService {
	return &AuthService{users: users, admins: admins, otp: otp, tokens: tokens, hasher: hasher}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (string, error) {
	email := normalizeEmail(in.Email)
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return "", apperr.New(apperr.Conflict, "User already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", internal("find user", err)
	}

	u := &models.User{Name: strings.TrimSpace(in.Name), Email: email, Mobile: strings.TrimSpace(in.Mobile)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.New(apperr.Conflict, "User already exists")
		}
		return "", internal("create user", err)
	}
	if _, err := s.otp.Issue(ctx, email); err != nil {
		return "", err
	}
	log.Info().Str("user", u.ID.Hex()).Msg("user registered")
	return email, nil
}

func (s *AuthService) VerifyUserOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, "", err
	}
	u, err := s.users.SetVerified(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, "", internal("verify user", err)
	}
	token, err := s.tokens.Sign(u.ID.Hex(), models.RoleUser)
	if err != nil {
		return nil, "", internal("sign token", err)
	}
	return u, token, nil
}

// LoginUser mails a fresh code; the token comes from VerifyUserOTP.
func (s *AuthService) LoginUser(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	_, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.New(apperr.Unauthorized, "Invalid credentials")
	}
	if err != nil {
		return "", internal("find user", err)
	}
	if _, err := s.otp.Issue(ctx, email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (string, error) {
	email := normalizeEmail(in.Email)
	_, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		return "", apperr.New(apperr.Conflict, "Admin already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", internal("find admin", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", internal("hash password", err)
	}
	a := &models.Admin{Name: strings.TrimSpace(in.Name), Email: email, Mobile: strings.TrimSpace(in.Mobile), Password: hash}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.New(apperr.Conflict, "Admin already exists")
		}
		return "", internal("create admin", err)
	}
	if _, err := s.otp.Issue(ctx, email); err != nil {
		return "", err
	}
	log.Info().Str("admin", a.ID.Hex()).Msg("admin registered")
	return email, nil
}

func (s *AuthService) VerifyAdminOTP(ctx context.Context, email, code string) (*models.Admin, string, error) {
	email = normalizeEmail(email)
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, "", err
	}
	a, err := s.admins.SetVerified(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.New(apperr.NotFound, "Admin not found")
	}
	if err != nil {
		return nil, "", internal("verify admin", err)
	}
	token, err := s.tokens.Sign(a.ID.Hex(), models.RoleAdmin)
	if err != nil {
		return nil, "", internal("sign token", err)
	}
	return a, token, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, string, error) {
	a, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.New(apperr.Unauthorized, "Invalid credentials")
	}
	if err != nil {
		return nil, "", internal("find admin", err)
	}
	if !s.hasher.Compare(password, a.Password) {
		return nil, "", apperr.New(apperr.Unauthorized, "Invalid credentials")
	}
	token, err := s.tokens.Sign(a.ID.Hex(), models.RoleAdmin)
	if err != nil {
		return nil, "", internal("sign token", err)
	}
	return a, token, nil
}

// Resolve turns a bearer token into a caller identity. The role in the token
// picks the store; the account must still exist.
func (s *AuthService) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Identity{}, apperr.New(apperr.Unauthorized, "Invalid token")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return auth.Identity{}, apperr.New(apperr.Unauthorized, "Invalid token")
	}

	switch claims.Role {
	case models.RoleUser:
		u, err := s.users.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Identity{}, apperr.New(apperr.Unauthorized, "User not found")
		}
		if err != nil {
			return auth.Identity{}, internal("resolve user", err)
		}
		return auth.NewUser(u.ID), nil
	case models.RoleAdmin:
		a, err := s.admins.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Identity{}, apperr.New(apperr.Unauthorized, "Admin not found")
		}
		if err != nil {
			return auth.Identity{}, internal("resolve admin", err)
		}
		return auth.NewAdmin(a.ID, a.SuperAdmin), nil
	}
	return auth.Identity{}, apperr.New(apperr.Unauthorized, "Invalid token")
}

// Me returns the account behind id: a *models.User or a *models.Admin.
func (s *AuthService) Me(ctx context.Context, id auth.Identity) (any, error) {
	switch id.Kind {
	case auth.UserIdentity:
		u, err := s.users.FindByID(ctx, id.ID)
		if err != nil {
			return nil, notFoundOr(err, "User not found", "find user")
		}
		return u, nil
	case auth.AdminIdentity:
		a, err := s.admins.FindByID(ctx, id.ID)
		if err != nil {
			return nil, notFoundOr(err, "Admin not found", "find admin")
		}
		return a, nil
	}
	return nil, apperr.New(apperr.Unauthorized, "Not authorized")
}
