package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
)

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	users := newFakeUserStore()
	id := users.add(models.User{Fullname: "مریم رضایی", Username: "maryam", Wallet: 1000})
	svc := NewUserService(users)

	updated, err := svc.Update(context.Background(), id, repositories.ProfilePatch{
		Fullname: strp("مریم احمدی"),
	})
	require.NoError(t, err)
	assert.Equal(t, "مریم احمدی", updated.Fullname)
	assert.Equal(t, "maryam", updated.Username)
	assert.Equal(t, int64(1000), updated.Wallet)
}

func TestWalletDeltaIsAdditive(t *testing.T) {
	users := newFakeUserStore()
	id := users.add(models.User{Username: "maryam", Wallet: 1000})
	svc := NewUserService(users)

	updated, err := svc.Update(context.Background(), id, repositories.ProfilePatch{
		WalletDelta: int64p(250),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), updated.Wallet)

	updated, err = svc.Update(context.Background(), id, repositories.ProfilePatch{
		WalletDelta: int64p(-1000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.Wallet)
}

func TestWalletCannotGoNegativeThroughProfileUpdate(t *testing.T) {
	users := newFakeUserStore()
	id := users.add(models.User{Fullname: "مریم رضایی", Username: "maryam", Wallet: 100})
	svc := NewUserService(users)

	_, err := svc.Update(context.Background(), id, repositories.ProfilePatch{
		WalletDelta: int64p(-500),
	})
	require.ErrorIs(t, err, repositories.ErrInsufficientFunds)

	u, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.Wallet, "rejected withdrawal must not touch the balance")
	assert.GreaterOrEqual(t, u.Wallet, int64(0))
}

func TestRejectedWithdrawalAppliesNoOtherFields(t *testing.T) {
	users := newFakeUserStore()
	id := users.add(models.User{Fullname: "مریم رضایی", Username: "maryam", Wallet: 100})
	svc := NewUserService(users)

	_, err := svc.Update(context.Background(), id, repositories.ProfilePatch{
		Fullname:    strp("مریم احمدی"),
		WalletDelta: int64p(-500),
	})
	require.ErrorIs(t, err, repositories.ErrInsufficientFunds)

	u, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "مریم رضایی", u.Fullname, "the update is all-or-nothing")
	assert.Equal(t, int64(100), u.Wallet)
}

func TestWithdrawalOfFullBalanceSucceeds(t *testing.T) {
	users := newFakeUserStore()
	id := users.add(models.User{Username: "maryam", Wallet: 100})
	svc := NewUserService(users)

	updated, err := svc.Update(context.Background(), id, repositories.ProfilePatch{
		WalletDelta: int64p(-100),
	})
	require.NoError(t, err)
	assert.Zero(t, updated.Wallet)
}
