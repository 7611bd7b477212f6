package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
)

type checkoutFixture struct {
	users   *fakeUserStore
	schools *fakeSchoolStore
	orders  *fakeOrderStore
	svc     *CheckoutService
	buyerID primitive.ObjectID
	product models.Product
}

func newCheckoutFixture(t *testing.T, wallet int64) *checkoutFixture {
	t.Helper()

	users := newFakeUserStore()
	schools := newFakeSchoolStore()
	orders := newFakeOrderStore()

	product := models.Product{
		ID:         primitive.NewObjectID(),
		Name:       "ساندویچ مرغ",
		Price:      45000,
		Off:        5000,
		FinalPrice: 40000,
		ItemCount:  10,
	}
	schools.add(models.School{
		SchoolID: "sch-1",
		Name:     "دبیرستان نمونه",
		City:     "تهران",
		Products: []models.Product{product},
	})

	buyerID := users.add(models.User{
		Username: "student",
		Wallet:   wallet,
		SchoolID: "sch-1",
	})

	tx := &fakeTxRunner{users: users, schools: schools, orders: orders}
	return &checkoutFixture{
		users:   users,
		schools: schools,
		orders:  orders,
		svc:     NewCheckoutService(users, schools, orders, tx),
		buyerID: buyerID,
		product: product,
	}
}

func (f *checkoutFixture) cart(count int64) []CartLine {
	return []CartLine{{ProductID: f.product.ID.Hex(), Count: count}}
}

func (f *checkoutFixture) state(t *testing.T) (wallet, stock, sold int64) {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), f.buyerID)
	require.NoError(t, err)
	sc, err := f.schools.FindBySchoolID(context.Background(), "sch-1")
	require.NoError(t, err)
	p := sc.FindProduct(f.product.ID)
	require.NotNil(t, p)
	return u.Wallet, p.ItemCount, p.SellCount
}

func TestPurchaseCommitsWalletStockAndOrder(t *testing.T) {
	f := newCheckoutFixture(t, 100000)

	order, err := f.svc.Purchase(context.Background(), f.buyerID, f.cart(2), 80000)
	require.NoError(t, err)

	wallet, stock, sold := f.state(t)
	assert.Equal(t, int64(20000), wallet)
	assert.Equal(t, int64(8), stock)
	assert.Equal(t, int64(2), sold)

	assert.Regexp(t, regexp.MustCompile(`^\d{4}$`), order.TrackingCode)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "sch-1", order.SchoolID)
	assert.Equal(t, int64(80000), order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, f.product.ID, order.Items[0].ProductID)
	assert.Equal(t, int64(40000), order.Items[0].UnitPrice)
	assert.Equal(t, int64(2), order.Items[0].Count)
	assert.Equal(t, 1, f.orders.count())
}

func TestPurchaseRejectionsLeaveStateUntouched(t *testing.T) {
	cases := []struct {
		name    string
		wallet  int64
		cart    func(f *checkoutFixture) []CartLine
		total   int64
		wantErr error
	}{
		{
			name:    "empty cart",
			wallet:  100000,
			cart:    func(f *checkoutFixture) []CartLine { return nil },
			total:   0,
			wantErr: ErrEmptyCart,
		},
		{
			name:   "unknown product",
			wallet: 100000,
			cart: func(f *checkoutFixture) []CartLine {
				return []CartLine{{ProductID: primitive.NewObjectID().Hex(), Count: 1}}
			},
			total:   40000,
			wantErr: repositories.ErrProductNotFound,
		},
		{
			name:    "insufficient stock",
			wallet:  10000000,
			cart:    func(f *checkoutFixture) []CartLine { return f.cart(11) },
			total:   440000,
			wantErr: repositories.ErrInsufficientStock,
		},
		{
			name:    "tampered total",
			wallet:  100000,
			cart:    func(f *checkoutFixture) []CartLine { return f.cart(2) },
			total:   1000,
			wantErr: ErrPriceMismatch,
		},
		{
			name:    "insufficient funds",
			wallet:  50000,
			cart:    func(f *checkoutFixture) []CartLine { return f.cart(2) },
			total:   80000,
			wantErr: repositories.ErrInsufficientFunds,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t, tc.wallet)

			_, err := f.svc.Purchase(context.Background(), f.buyerID, tc.cart(f), tc.total)
			assert.ErrorIs(t, err, tc.wantErr)

			wallet, stock, sold := f.state(t)
			assert.Equal(t, tc.wallet, wallet)
			assert.Equal(t, int64(10), stock)
			assert.Zero(t, sold)
			assert.Zero(t, f.orders.count())
		})
	}
}

func TestPurchaseRequiresSchool(t *testing.T) {
	f := newCheckoutFixture(t, 100000)
	loner := f.users.add(models.User{Username: "loner", Wallet: 100000})

	_, err := f.svc.Purchase(context.Background(), loner, f.cart(1), 40000)
	assert.ErrorIs(t, err, ErrNoSchool)
	assert.Zero(t, f.orders.count())
}

func TestPurchaseRedrawsCollidingTrackingCode(t *testing.T) {
	f := newCheckoutFixture(t, 1000000)

	// Fill a prior order; a later draw colliding with its code must retry
	// rather than fail the purchase.
	first, err := f.svc.Purchase(context.Background(), f.buyerID, f.cart(1), 40000)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		o, err := f.svc.Purchase(context.Background(), f.buyerID, f.cart(1), 40000)
		require.NoError(t, err)
		assert.NotEqual(t, first.TrackingCode, o.TrackingCode)
		first = o
	}
	assert.Equal(t, 6, f.orders.count())
}

// contendedUsers passes validation but fails the in-transaction debit, as
// if a concurrent checkout drained the wallet between the read and the
// conditional update.
type contendedUsers struct {
	*fakeUserStore
}

func (c *contendedUsers) DebitWallet(context.Context, primitive.ObjectID, int64) error {
	return repositories.ErrInsufficientFunds
}

func TestPurchaseRollsBackStockWhenDebitLoses(t *testing.T) {
	f := newCheckoutFixture(t, 1000000)
	users := &contendedUsers{f.users}
	tx := &fakeTxRunner{users: f.users, schools: f.schools, orders: f.orders}
	svc := NewCheckoutService(users, f.schools, f.orders, tx)

	_, err := svc.Purchase(context.Background(), f.buyerID, f.cart(2), 80000)
	assert.ErrorIs(t, err, repositories.ErrInsufficientFunds)

	// Stock was decremented inside the transaction before the debit failed;
	// the rollback must undo it.
	wallet, stock, sold := f.state(t)
	assert.Equal(t, int64(1000000), wallet)
	assert.Equal(t, int64(10), stock)
	assert.Zero(t, sold)
	assert.Zero(t, f.orders.count())
}
