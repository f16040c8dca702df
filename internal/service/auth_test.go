package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/models"
)

func TestUserRegistrationFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	email, err := e.auth.RegisterUser(ctx, RegisterUserInput{Name: "Asha", Email: " Asha@Example.com ", Mobile: "9000000001"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)

	u, err := e.db.Users().FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.False(t, u.IsVerified)

	u, token, err := e.auth.VerifyUserOTP(ctx, email, e.mail.lastCode(t))
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	require.NotEmpty(t, token)

	claims, err := e.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.ID)
	assert.Equal(t, models.RoleUser, claims.Role)

	id, err := e.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, auth.NewUser(u.ID), id)
}

func TestRegisterUserConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.RegisterUser(ctx, RegisterUserInput{Name: "Asha", Email: "asha@example.com", Mobile: "9000000001"})
	require.NoError(t, err)

	_, err = e.auth.RegisterUser(ctx, RegisterUserInput{Name: "Asha", Email: "ASHA@example.com", Mobile: "9000000002"})
	requireKind(t, err, apperr.Conflict)

	_, err = e.auth.RegisterUser(ctx, RegisterUserInput{Name: "Ravi", Email: "ravi@example.com", Mobile: "9000000001"})
	requireKind(t, err, apperr.Conflict)
}

func TestVerifyUserOTPRejectsBadCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	email, err := e.auth.RegisterUser(ctx, RegisterUserInput{Name: "Asha", Email: "asha@example.com", Mobile: "9000000001"})
	require.NoError(t, err)

	_, _, err = e.auth.VerifyUserOTP(ctx, email, "12345")
	requireKind(t, err, apperr.InvalidCredential)

	u, _ := e.db.Users().FindByEmail(ctx, email)
	assert.False(t, u.IsVerified)
}

func TestLoginUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.LoginUser(ctx, "nobody@example.com")
	requireKind(t, err, apperr.Unauthorized)
	assert.Empty(t, e.mail.msgs)

	e.user(t, "asha@example.com")
	email, err := e.auth.LoginUser(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)

	_, token, err := e.auth.VerifyUserOTP(ctx, email, e.mail.lastCode(t))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAdminFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	email, err := e.auth.RegisterAdmin(ctx, RegisterAdminInput{Name: "Root", Email: "Root@Example.com", Password: "s3cret!", Mobile: "9000000009"})
	require.NoError(t, err)

	stored, err := e.db.Admins().FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.Password)

	a, token, err := e.auth.VerifyAdminOTP(ctx, email, e.mail.lastCode(t))
	require.NoError(t, err)
	assert.True(t, a.IsVerified)
	claims, err := e.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = e.auth.RegisterAdmin(ctx, RegisterAdminInput{Name: "Root", Email: email, Password: "x", Mobile: "1"})
	requireKind(t, err, apperr.Conflict)

	mailed := len(e.mail.msgs)
	a, token, err = e.auth.LoginAdmin(ctx, "root@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, a.ID)
	assert.Len(t, e.mail.msgs, mailed, "admin login must not send an OTP")

	id, err := e.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	_, _, err = e.auth.LoginAdmin(ctx, "root@example.com", "wrong")
	requireKind(t, err, apperr.Unauthorized)
	_, _, err = e.auth.LoginAdmin(ctx, "ghost@example.com", "s3cret!")
	requireKind(t, err, apperr.Unauthorized)
}

func TestResolve(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Resolve(ctx, "garbage")
	requireKind(t, err, apperr.Unauthorized)

	ghost, err := e.tokens.Sign(primitive.NewObjectID().Hex(), models.RoleUser)
	require.NoError(t, err)
	_, err = e.auth.Resolve(ctx, ghost)
	requireKind(t, err, apperr.Unauthorized)

	// A user id presented with the admin role does not resolve.
	u := e.user(t, "asha@example.com")
	forged, err := e.tokens.Sign(u.ID.Hex(), models.RoleAdmin)
	require.NoError(t, err)
	_, err = e.auth.Resolve(ctx, forged)
	requireKind(t, err, apperr.Unauthorized)
}

func TestMe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "asha@example.com")

	got, err := e.auth.Me(ctx, auth.NewUser(u.ID))
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.(*models.User).Email)

	_, err = e.auth.Me(ctx, auth.Identity{})
	requireKind(t, err, apperr.Unauthorized)
}
