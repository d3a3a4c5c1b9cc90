package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/wjy1814-droid/memos/pkg/errors"
)

func TestUserServiceRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "hunter2hunter2", user.Password)
}

func TestUserServiceRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "bob")

	_, err := f.users.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.users.Register(context.Background(), RegisterInput{
		Username: "bob2",
		Email:    "bob@example.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceRegisterRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(context.Background(), RegisterInput{Username: "x"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestUserServiceAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "carol")

	user, err := f.users.Authenticate(context.Background(), "carol@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "carol", user.Username)

	_, err = f.users.Authenticate(context.Background(), "carol@example.com", "wrong-pass")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.users.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserServiceLookups(t *testing.T) {
	f := newFixture(t)
	created := f.createUser(t, "dave")

	byID, err := f.users.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, byID.Email)

	byEmail, err := f.users.FindByEmail(context.Background(), "DAVE@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	_, err = f.users.Get(context.Background(), "missing-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}
