package user

import (
	"context"
	"time"

	userRepo "findmyspot/database/repository/user"
	"findmyspot/models"

	"go.uber.org/zap"
)

// ProfileService manages the driver's profile and registered vehicle.
type ProfileService interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	SaveDriverInfo(ctx context.Context, uid string, info models.DriverInfo) (*models.UserProfile, error)
	RegisterVehicle(ctx context.Context, uid string, vehicle models.VehicleInfo) (*models.UserProfile, error)
	UpdateFCMToken(ctx context.Context, uid, token string) error
}

// DefaultProfileService is the production implementation.
type DefaultProfileService struct {
	Repo    userRepo.UserRepository
	Timeout time.Duration
	Logger  *zap.Logger
	// Now stamps updatedAt; time.Now when nil.
	Now func() time.Time
}
