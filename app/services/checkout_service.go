package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/event"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/metrics"
)

// trackingCodeRetries bounds how many fresh codes are drawn when an insert
// collides with an existing tracking code.
const trackingCodeRetries = 5

// CartLine is one entry of the client's cart.
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Count     int64  `json:"count" validate:"required,gte=1"`
}

// OrderCreated is the payload fired on the "order.created" event after a
// purchase commits.
type OrderCreated struct {
	Order *models.Order
	User  *models.User
}

// CheckoutService turns a cart into an order. All balance and stock
// mutations happen inside one transaction with conditional updates, so a
// purchase either fully commits or leaves no trace.
type CheckoutService struct {
	users   repositories.UserStore
	schools repositories.SchoolStore
	orders  repositories.OrderStore
	tx      repositories.TxRunner
	now     func() time.Time
}

func NewCheckoutService(
	users repositories.UserStore,
	schools repositories.SchoolStore,
	orders repositories.OrderStore,
	tx repositories.TxRunner,
) *CheckoutService {
	return &CheckoutService{
		users:   users,
		schools: schools,
		orders:  orders,
		tx:      tx,
		now:     time.Now,
	}
}

func checkoutReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrNoSchool):
		return "no_school"
	case errors.Is(err, repositories.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, repositories.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrPriceMismatch):
		return "price_mismatch"
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "error"
	}
}

// Purchase validates the cart against the buyer's school catalog and commits
// the order. clientTotal is what the client believes the cart costs; any
// disagreement with the server-side sum rejects the purchase.
func (s *CheckoutService) Purchase(ctx context.Context, buyerID primitive.ObjectID, lines []CartLine, clientTotal int64) (*models.Order, error) {
	order, err := s.purchase(ctx, buyerID, lines, clientTotal)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues(checkoutReason(err)).Inc()
		return nil, err
	}

	metrics.CheckoutTotal.WithLabelValues("accepted").Inc()
	metrics.OrderValue.Add(float64(order.TotalPrice))
	return order, nil
}

func (s *CheckoutService) purchase(ctx context.Context, buyerID primitive.ObjectID, lines []CartLine, clientTotal int64) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Always a fresh read. The session never vouches for wallet or school.
	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.SchoolID == "" {
		return nil, ErrNoSchool
	}

	school, err := s.schools.FindBySchoolID(ctx, buyer.SchoolID)
	if err != nil {
		return nil, err
	}

	// Validation phase: resolve every line against the catalog and build the
	// immutable snapshots before touching any state.
	items := make([]models.OrderItem, 0, len(lines))
	var serverTotal int64
	for _, line := range lines {
		if line.Count < 1 {
			return nil, ErrEmptyCart
		}
		pid, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, repositories.ErrProductNotFound
		}
		p := school.FindProduct(pid)
		if p == nil {
			return nil, repositories.ErrProductNotFound
		}
		if p.ItemCount < line.Count {
			return nil, repositories.ErrInsufficientStock
		}
		serverTotal += p.FinalPrice * line.Count
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			ImgURL:    p.ImgURL,
			UnitPrice: p.FinalPrice,
			Count:     line.Count,
		})
	}

	if clientTotal != serverTotal {
		return nil, ErrPriceMismatch
	}
	if buyer.Wallet < serverTotal {
		return nil, repositories.ErrInsufficientFunds
	}

	order := &models.Order{
		UserID:     buyer.ID,
		SchoolID:   school.SchoolID,
		Items:      items,
		TotalPrice: serverTotal,
		Status:     models.OrderStatusPending,
		CreatedAt:  s.now(),
	}

	// Mutation phase. The conditional updates re-check stock and balance, so
	// a concurrent checkout that drained either one aborts this transaction.
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, it := range order.Items {
			if err := s.schools.DecrementStock(ctx, school.SchoolID, it.ProductID, it.Count); err != nil {
				return err
			}
		}
		if err := s.users.DebitWallet(ctx, buyer.ID, serverTotal); err != nil {
			return err
		}
		return s.insertWithTrackingCode(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	event.FireAsync("order.created", OrderCreated{Order: order, User: buyer})

	logger.WithCtx(ctx).Info("order accepted",
		"tracking_code", order.TrackingCode,
		"school_id", order.SchoolID,
		"total", order.TotalPrice,
		"items", len(order.Items),
	)
	return order, nil
}

// insertWithTrackingCode draws 4-digit codes until the unique index accepts
// one. The space is small, so collisions are expected under load; the
// bounded retry turns them into fresh draws instead of failed purchases.
func (s *CheckoutService) insertWithTrackingCode(ctx context.Context, order *models.Order) error {
	var err error
	for i := 0; i < trackingCodeRetries; i++ {
		order.TrackingCode, err = newTrackingCode()
		if err != nil {
			return err
		}
		err = s.orders.Create(ctx, order)
		if err == nil || !errors.Is(err, repositories.ErrTrackingCodeTaken) {
			return err
		}
	}
	return err
}

func newTrackingCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("tracking code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
