package userRepo

import (
	"context"

	"findmyspot/database"
	"findmyspot/models"
)

// UsersRoot is the namespace user profiles live under.
const UsersRoot = "users"

// UserRepository defines methods for user profile access.
type UserRepository interface {
	// GetByID retrieves a profile by uid, or models.ErrNotFound.
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	// GetAll retrieves every profile.
	GetAll(ctx context.Context) ([]models.UserProfile, error)
	// Save writes the full profile, replacing the stored one.
	Save(ctx context.Context, profile *models.UserProfile) error
	// UpdateFields merges the given fields into the stored profile.
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
}

// StoreUserRepo implements UserRepository on a record store.
type StoreUserRepo struct {
	store database.RecordStore
}

// NewUserRepo creates a new UserRepository over the given record store.
func NewUserRepo(store database.RecordStore) UserRepository {
	return &StoreUserRepo{store: store}
}
