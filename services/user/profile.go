package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"findmyspot/models"

	"go.uber.org/zap"
)

func (s *DefaultProfileService) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *DefaultProfileService) now() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func (s *DefaultProfileService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// GetProfile returns the stored profile. A user who never saved one gets an
// empty profile rather than an error.
func (s *DefaultProfileService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, models.ErrNotAuthenticated
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	profile, err := s.Repo.GetByID(ctx, uid)
	if errors.Is(err, models.ErrNotFound) {
		return &models.UserProfile{UID: uid}, nil
	}
	return profile, err
}

// SaveDriverInfo updates only the personal fields, so a vehicle or token written
// concurrently is kept.
func (s *DefaultProfileService) SaveDriverInfo(ctx context.Context, uid string, info models.DriverInfo) (*models.UserProfile, error) {
	if uid == "" {
		return nil, models.ErrNotAuthenticated
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	fields := map[string]interface{}{
		"fullName":      strings.TrimSpace(info.FullName),
		"contactNumber": strings.TrimSpace(info.ContactNumber),
		"updatedAt":     s.now(),
	}
	if info.ProfileImage != "" {
		fields["profileImage"] = info.ProfileImage
	}
	if err := s.Repo.UpdateFields(ctx, uid, fields); err != nil {
		return nil, fmt.Errorf("failed to save driver info: %w", err)
	}
	s.logger().Info("profile: driver info saved", zap.String("uid", uid))
	return s.Repo.GetByID(ctx, uid)
}

// RegisterVehicle stores the vehicle after checking no other driver holds the plate.
func (s *DefaultProfileService) RegisterVehicle(ctx context.Context, uid string, vehicle models.VehicleInfo) (*models.UserProfile, error) {
	if uid == "" {
		return nil, models.ErrNotAuthenticated
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	plate := strings.ToUpper(strings.TrimSpace(vehicle.PlateNumber))
	wanted := models.NormalizePlate(plate)
	if wanted == "" {
		return nil, ErrMissingPlate
	}

	profiles, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.UID != uid && models.NormalizePlate(p.PlateNumber) == wanted {
			s.logger().Info("profile: plate clash",
				zap.String("uid", uid),
				zap.String("plateNumber", plate))
			return nil, ErrPlateAlreadyInUse
		}
	}

	fields := map[string]interface{}{
		"vehicleType":  vehicle.VehicleType,
		"vehicleColor": vehicle.VehicleColor,
		"plateNumber":  plate,
		"updatedAt":    s.now(),
	}
	if err := s.Repo.UpdateFields(ctx, uid, fields); err != nil {
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}
	s.logger().Info("profile: vehicle registered", zap.String("uid", uid), zap.String("plateNumber", plate))
	return s.Repo.GetByID(ctx, uid)
}

// UpdateFCMToken records the device token pushes are sent to.
func (s *DefaultProfileService) UpdateFCMToken(ctx context.Context, uid, token string) error {
	if uid == "" {
		return models.ErrNotAuthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	return s.Repo.UpdateFields(ctx, uid, map[string]interface{}{"fcmToken": token})
}
