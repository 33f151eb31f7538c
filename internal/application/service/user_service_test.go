package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/infrastructure/repository"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/utils"
)

func TestUserService_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(repository.NewUserRepository(f.db), f.store, nil)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserInput{
		Name:     "Nadia",
		Email:    " Nadia@Example.com ",
		Password: "secret123",
		Role:     enum.UserRoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "nadia@example.com", user.Email)
	assert.True(t, utils.CheckPassword(user.Password, "secret123"))

	_, err = svc.Create(ctx, &CreateUserInput{Name: "Dup", Email: "nadia@example.com", Password: "secret123"})
	assert.True(t, apperror.HasReason(err, apperror.ReasonConflict))

	_, err = svc.Create(ctx, &CreateUserInput{Name: "Short", Email: "s@example.com", Password: "123"})
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))

	role := enum.UserRoleAdmin
	name := "Nadia K"
	updated, err := svc.Update(ctx, user.ID, &UpdateUserInput{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Nadia K", updated.Name)
	assert.True(t, updated.IsAdmin())
	assert.Equal(t, "nadia@example.com", updated.Email)
}

func TestUserService_Signature(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(repository.NewUserRepository(f.db), f.store, nil)
	ctx := context.Background()
	actor := f.user(t, "Khalid", "khalid@example.com", enum.UserRoleStaff)

	_, err := svc.Signature(ctx, actor.ID)
	assert.True(t, apperror.HasReason(err, apperror.ReasonNotFound))

	_, err = svc.SetSignature(ctx, actor.ID, "not-an-image")
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))

	user, err := svc.SetSignature(ctx, actor.ID, pngDataURI)
	require.NoError(t, err)
	require.NotNil(t, user.SignatureRef)
	assert.True(t, strings.HasPrefix(*user.SignatureRef, "asset://signatures/"))

	uri, err := svc.Signature(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, pngDataURI, uri)
}

func TestUserService_DeleteSelfRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(repository.NewUserRepository(f.db), f.store, nil)
	ctx := context.Background()
	admin := f.user(t, "Boss", "boss@example.com", enum.UserRoleAdmin)
	staff := f.user(t, "Sara", "sara@example.com", enum.UserRoleStaff)

	err := svc.Delete(ctx, admin, admin.ID)
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))

	require.NoError(t, svc.Delete(ctx, admin, staff.ID))
	_, err = svc.Get(ctx, staff.ID)
	assert.True(t, apperror.HasReason(err, apperror.ReasonNotFound))
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	users := repository.NewUserRepository(f.db)
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	auth := NewAuthService(users, jwt)
	ctx := context.Background()

	_, err := NewUserService(users, f.store, nil).Create(ctx, &CreateUserInput{
		Name: "Sara", Email: "sara@example.com", Password: "secret123", Role: enum.UserRoleAdmin,
	})
	require.NoError(t, err)

	out, err := auth.Login(ctx, &LoginInput{Email: "SARA@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = auth.Login(ctx, &LoginInput{Email: "sara@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	me, err := auth.Me(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sara", me.Name)
}
