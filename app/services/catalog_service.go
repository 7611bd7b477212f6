package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/cache"
	"github.com/boofino/boofino/pkg/collection"
	"github.com/boofino/boofino/pkg/logger"
)

const schoolListCacheKey = "catalog:schools"

// CatalogService covers schools and their embedded products.
type CatalogService struct {
	schools repositories.SchoolStore
}

func NewCatalogService(schools repositories.SchoolStore) *CatalogService {
	return &CatalogService{schools: schools}
}

// Schools returns every school. The list changes rarely and backs the public
// school picker, so it is cached for a minute.
func (s *CatalogService) Schools(ctx context.Context) ([]models.School, error) {
	var cached []models.School
	if cache.Get(schoolListCacheKey, &cached) {
		return cached, nil
	}

	schools, err := s.schools.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(schools) > 0 {
		if err := cache.Set(schoolListCacheKey, schools, time.Minute); err != nil {
			logger.WithCtx(ctx).Warn("cache school list", "error", err)
		}
	}
	return schools, nil
}

// SearchSchools filters schools by city/state (exact) and name
// (case-insensitive substring).
func (s *CatalogService) SearchSchools(ctx context.Context, filter repositories.SchoolFilter) ([]models.School, error) {
	return s.schools.Search(ctx, filter)
}

// SelectSchool fetches one school by its document ID for the school picker.
func (s *CatalogService) SelectSchool(ctx context.Context, id primitive.ObjectID) (*models.School, error) {
	return s.schools.FindByID(ctx, id)
}

// Products returns the product list of the given school.
func (s *CatalogService) Products(ctx context.Context, schoolID string) ([]models.Product, error) {
	school, err := s.schools.FindBySchoolID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return school.Products, nil
}

// Product returns a single product by exact name.
func (s *CatalogService) Product(ctx context.Context, schoolID, name string) (*models.Product, error) {
	school, err := s.schools.FindBySchoolID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	p := school.FindProductByName(name)
	if p == nil {
		return nil, repositories.ErrProductNotFound
	}
	return p, nil
}

// SearchProducts returns the school's products whose name contains the term,
// case-insensitively.
func (s *CatalogService) SearchProducts(ctx context.Context, schoolID, term string) ([]models.Product, error) {
	school, err := s.schools.FindBySchoolID(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	return collection.Filter(school.Products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// AddProduct inserts a product into the school's catalog. The insert is
// guarded against duplicate names in one atomic update.
func (s *CatalogService) AddProduct(ctx context.Context, schoolID string, p models.Product) (*models.Product, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.DateTime.IsZero() {
		p.DateTime = time.Now()
	}
	if p.FinalPrice == 0 {
		p.FinalPrice = p.Price - p.Off
	}
	p.IsDiscount = p.Off > 0

	if err := s.schools.AddProduct(ctx, schoolID, p); err != nil {
		return nil, err
	}
	cache.Del(schoolListCacheKey)
	return &p, nil
}

// EditProduct applies a partial update to the named product.
func (s *CatalogService) EditProduct(ctx context.Context, schoolID, name string, patch repositories.ProductPatch) error {
	if patch.Empty() {
		return nil
	}
	if err := s.schools.UpdateProduct(ctx, schoolID, name, patch); err != nil {
		return err
	}
	cache.Del(schoolListCacheKey)
	return nil
}

// DeleteProduct removes the named product from the school.
func (s *CatalogService) DeleteProduct(ctx context.Context, schoolID, name string) error {
	if err := s.schools.RemoveProduct(ctx, schoolID, name); err != nil {
		return err
	}
	cache.Del(schoolListCacheKey)
	return nil
}

// DeleteProducts removes a batch of products by name and reports how many
// documents matched.
func (s *CatalogService) DeleteProducts(ctx context.Context, schoolID string, names []string) (int64, error) {
	n, err := s.schools.RemoveProducts(ctx, schoolID, collection.Unique(names))
	if err != nil {
		return 0, err
	}
	cache.Del(schoolListCacheKey)
	return n, nil
}
