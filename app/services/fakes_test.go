package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
)

// In-memory stores implementing the repository interfaces. They reproduce
// the conditional-update semantics of the Mongo repositories so the service
// tests exercise the same failure paths.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func (s *fakeUserStore) add(u models.User) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = &u
	return u.ID
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return repositories.ErrUsernameTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *fakeUserStore) ApplyPatch(_ context.Context, id primitive.ObjectID, patch repositories.ProfilePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	// The mongo update is all-or-nothing, so reject before mutating.
	if patch.WalletDelta != nil && *patch.WalletDelta < 0 && u.Wallet < -*patch.WalletDelta {
		return repositories.ErrInsufficientFunds
	}
	if patch.Username != nil {
		for oid, other := range s.users {
			if oid != id && other.Username == *patch.Username {
				return repositories.ErrUsernameTaken
			}
		}
		u.Username = *patch.Username
	}
	if patch.Fullname != nil {
		u.Fullname = *patch.Fullname
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.ImgURL != nil {
		u.ImgURL = *patch.ImgURL
	}
	if patch.SchoolID != nil {
		u.SchoolID = *patch.SchoolID
	}
	if patch.WalletDelta != nil {
		u.Wallet += *patch.WalletDelta
	}
	return nil
}

func (s *fakeUserStore) DebitWallet(_ context.Context, id primitive.ObjectID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if u.Wallet < amount {
		return repositories.ErrInsufficientFunds
	}
	u.Wallet -= amount
	return nil
}

func (s *fakeUserStore) snapshot() map[primitive.ObjectID]models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]models.User, len(s.users))
	for id, u := range s.users {
		out[id] = *u
	}
	return out
}

func (s *fakeUserStore) restore(snap map[primitive.ObjectID]models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[primitive.ObjectID]*models.User, len(snap))
	for id, u := range snap {
		cp := u
		s.users[id] = &cp
	}
}

type fakeSchoolStore struct {
	mu      sync.Mutex
	schools map[string]*models.School // keyed by SchoolID
}

func newFakeSchoolStore() *fakeSchoolStore {
	return &fakeSchoolStore{schools: map[string]*models.School{}}
}

func cloneSchool(s *models.School) *models.School {
	cp := *s
	cp.Products = append([]models.Product(nil), s.Products...)
	return &cp
}

func (s *fakeSchoolStore) add(school models.School) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if school.ID.IsZero() {
		school.ID = primitive.NewObjectID()
	}
	s.schools[school.SchoolID] = cloneSchool(&school)
}

func (s *fakeSchoolStore) All(_ context.Context) ([]models.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.School, 0, len(s.schools))
	for _, sc := range s.schools {
		out = append(out, *cloneSchool(sc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchoolID < out[j].SchoolID })
	return out, nil
}

func (s *fakeSchoolStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.schools {
		if sc.ID == id {
			return cloneSchool(sc), nil
		}
	}
	return nil, repositories.ErrSchoolNotFound
}

func (s *fakeSchoolStore) FindBySchoolID(_ context.Context, schoolID string) (*models.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[schoolID]
	if !ok {
		return nil, repositories.ErrSchoolNotFound
	}
	return cloneSchool(sc), nil
}

func (s *fakeSchoolStore) Search(_ context.Context, filter repositories.SchoolFilter) ([]models.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.School, 0)
	for _, sc := range s.schools {
		if filter.City != "" && sc.City != filter.City {
			continue
		}
		if filter.State != "" && sc.State != filter.State {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(sc.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *cloneSchool(sc))
	}
	return out, nil
}

func (s *fakeSchoolStore) AddProduct(_ context.Context, schoolID string, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[schoolID]
	if !ok {
		return repositories.ErrSchoolNotFound
	}
	for _, existing := range sc.Products {
		if existing.Name == p.Name {
			return repositories.ErrDuplicateProduct
		}
	}
	sc.Products = append(sc.Products, p)
	return nil
}

func (s *fakeSchoolStore) UpdateProduct(_ context.Context, schoolID, name string, patch repositories.ProductPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[schoolID]
	if !ok {
		return repositories.ErrSchoolNotFound
	}
	for i := range sc.Products {
		if sc.Products[i].Name != name {
			continue
		}
		p := &sc.Products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.ImgURL != nil {
			p.ImgURL = *patch.ImgURL
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Off != nil {
			p.Off = *patch.Off
		}
		if patch.Group != nil {
			p.Group = *patch.Group
		}
		if patch.FinalPrice != nil {
			p.FinalPrice = *patch.FinalPrice
		}
		if patch.SellCount != nil {
			p.SellCount = *patch.SellCount
		}
		if patch.ItemCount != nil {
			p.ItemCount = *patch.ItemCount
		}
		if patch.OldPrice != nil {
			p.OldPrice = *patch.OldPrice
		}
		if patch.IsDiscount != nil {
			p.IsDiscount = *patch.IsDiscount
		}
		return nil
	}
	return repositories.ErrProductNotFound
}

func (s *fakeSchoolStore) RemoveProduct(_ context.Context, schoolID, name string) error {
	n, err := s.RemoveProducts(context.Background(), schoolID, []string{name})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrProductNotFound
	}
	return nil
}

func (s *fakeSchoolStore) RemoveProducts(_ context.Context, schoolID string, names []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[schoolID]
	if !ok {
		return 0, repositories.ErrSchoolNotFound
	}
	doomed := map[string]bool{}
	for _, n := range names {
		doomed[n] = true
	}
	kept := sc.Products[:0]
	var removed int64
	for _, p := range sc.Products {
		if doomed[p.Name] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	sc.Products = kept
	return removed, nil
}

func (s *fakeSchoolStore) DecrementStock(_ context.Context, schoolID string, productID primitive.ObjectID, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schools[schoolID]
	if !ok {
		return repositories.ErrSchoolNotFound
	}
	for i := range sc.Products {
		if sc.Products[i].ID != productID {
			continue
		}
		if sc.Products[i].ItemCount < qty {
			return repositories.ErrInsufficientStock
		}
		sc.Products[i].ItemCount -= qty
		sc.Products[i].SellCount += qty
		return nil
	}
	return repositories.ErrProductNotFound
}

func (s *fakeSchoolStore) snapshot() map[string]models.School {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.School, len(s.schools))
	for id, sc := range s.schools {
		out[id] = *cloneSchool(sc)
	}
	return out
}

func (s *fakeSchoolStore) restore(snap map[string]models.School) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schools = make(map[string]*models.School, len(snap))
	for id, sc := range snap {
		s.schools[id] = cloneSchool(&sc)
	}
}

type fakeDiscountStore struct {
	codes map[string]models.DiscountCode
}

func newFakeDiscountStore(codes ...models.DiscountCode) *fakeDiscountStore {
	s := &fakeDiscountStore{codes: map[string]models.DiscountCode{}}
	for _, c := range codes {
		s.codes[c.Code] = c
	}
	return s
}

func (s *fakeDiscountStore) FindByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	c, ok := s.codes[code]
	if !ok {
		return nil, repositories.ErrCodeNotFound
	}
	return &c, nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
}

func newFakeOrderStore() *fakeOrderStore { return &fakeOrderStore{} }

func (s *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.TrackingCode == o.TrackingCode {
			return repositories.ErrTrackingCodeTaken
		}
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	s.orders = append(s.orders, cp)
	return nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeOrderStore) FindByTrackingCode(_ context.Context, code string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].TrackingCode == code {
			cp := s.orders[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrOrderNotFound
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, code, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].TrackingCode == code {
			s.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrOrderNotFound
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *fakeOrderStore) snapshot() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

func (s *fakeOrderStore) restore(snap []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = snap
}

// fakeTxRunner mimics transaction semantics over the in-memory stores:
// a failed function restores every store to its pre-transaction state.
type fakeTxRunner struct {
	users   *fakeUserStore
	schools *fakeSchoolStore
	orders  *fakeOrderStore
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	userSnap := t.users.snapshot()
	schoolSnap := t.schools.snapshot()
	orderSnap := t.orders.snapshot()

	if err := fn(ctx); err != nil {
		t.users.restore(userSnap)
		t.schools.restore(schoolSnap)
		t.orders.restore(orderSnap)
		return err
	}
	return nil
}
