package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/auth"
)

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	u, err := svc.Register(context.Background(), RegisterInput{
		Fullname:    "علی رضایی",
		Username:    "ali",
		Password:    "supersecret1",
		Phonenumber: "09121234567",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "supersecret1", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "supersecret1"))
	assert.False(t, u.IsAdmin)
	assert.Zero(t, u.Wallet)
	assert.Empty(t, u.SchoolID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ali", Password: "supersecret1",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "ali", Password: "othersecret2",
	})
	assert.ErrorIs(t, err, repositories.ErrUsernameTaken)
}

func TestLoginOutcomesStayDistinct(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ali", Password: "supersecret1",
	})
	require.NoError(t, err)

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody", "supersecret1")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ali", "wrongwrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("success", func(t *testing.T) {
		u, err := svc.Login(context.Background(), "ali", "supersecret1")
		require.NoError(t, err)
		assert.Equal(t, "ali", u.Username)
	})
}
