package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
)

// UserService covers profile reads and partial updates.
type UserService struct {
	users repositories.UserStore
}

func NewUserService(users repositories.UserStore) *UserService {
	return &UserService{users: users}
}

// Get returns the fresh user record.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies a partial profile update and returns the updated record.
// Only fields present in the patch are touched; the wallet delta is applied
// atomically on the server, so two concurrent top-ups both count.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, patch repositories.ProfilePatch) (*models.User, error) {
	if !patch.Empty() {
		if err := s.users.ApplyPatch(ctx, id, patch); err != nil {
			return nil, err
		}
	}
	return s.users.FindByID(ctx, id)
}
