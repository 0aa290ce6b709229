package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"findmyspot/database"
	userRepo "findmyspot/database/repository/user"
	"findmyspot/models"
)

func newProfileService(t *testing.T) (*DefaultProfileService, userRepo.UserRepository) {
	t.Helper()
	repo := userRepo.NewUserRepo(database.NewMemoryStore())
	fixed := time.Date(2025, 3, 23, 1, 0, 0, 0, time.UTC)
	return &DefaultProfileService{
		Repo:    repo,
		Timeout: time.Second,
		Now:     func() time.Time { return fixed },
	}, repo
}

func sedan(plate string) models.VehicleInfo {
	return models.VehicleInfo{VehicleType: "Sedan", VehicleColor: "Black", PlateNumber: plate}
}

func TestGetProfileUnknownUserIsEmpty(t *testing.T) {
	svc, _ := newProfileService(t)
	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.UID != "u1" || profile.HasVehicle() {
		t.Fatalf("expected empty profile, got %+v", profile)
	}
	if _, err := svc.GetProfile(context.Background(), ""); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSaveDriverInfoKeepsVehicle(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()

	if _, err := svc.RegisterVehicle(ctx, "u1", sedan("abc 1234")); err != nil {
		t.Fatalf("register: %v", err)
	}
	profile, err := svc.SaveDriverInfo(ctx, "u1", models.DriverInfo{FullName: " Maria Santos ", ContactNumber: "09171234567"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if profile.FullName != "Maria Santos" || profile.PlateNumber != "ABC 1234" || profile.VehicleType != "Sedan" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.UpdatedAt != "2025-03-23T01:00:00Z" {
		t.Errorf("unexpected updatedAt %q", profile.UpdatedAt)
	}
}

func TestRegisterVehiclePlateUniqueness(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()

	if _, err := svc.RegisterVehicle(ctx, "u1", sedan("ABC 1234")); err != nil {
		t.Fatalf("register u1: %v", err)
	}
	if _, err := svc.RegisterVehicle(ctx, "u2", sedan("abc1234")); !errors.Is(err, ErrPlateAlreadyInUse) {
		t.Fatalf("expected ErrPlateAlreadyInUse, got %v", err)
	}
	// Re-registering one's own plate is fine.
	profile, err := svc.RegisterVehicle(ctx, "u1", models.VehicleInfo{VehicleType: "SUV", VehicleColor: "Red", PlateNumber: "Abc 1234"})
	if err != nil {
		t.Fatalf("re-register own plate: %v", err)
	}
	if profile.VehicleType != "SUV" || profile.VehicleColor != "Red" {
		t.Errorf("vehicle not updated: %+v", profile)
	}
	if _, err := svc.RegisterVehicle(ctx, "u2", sedan("XYZ 9876")); err != nil {
		t.Fatalf("register distinct plate: %v", err)
	}
}

func TestUpdateFCMToken(t *testing.T) {
	svc, repo := newProfileService(t)
	ctx := context.Background()

	if err := svc.UpdateFCMToken(ctx, "u1", "  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if err := svc.UpdateFCMToken(ctx, "u1", "token-1"); err != nil {
		t.Fatalf("update: %v", err)
	}
	profile, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.FCMToken != "token-1" {
		t.Fatalf("token not stored: %+v", profile)
	}
}

func TestRegisterVehicleRejectsBlankPlate(t *testing.T) {
	svc, repo := newProfileService(t)
	ctx := context.Background()

	if _, err := svc.RegisterVehicle(ctx, "u1", sedan("   ")); !errors.Is(err, ErrMissingPlate) {
		t.Fatalf("expected ErrMissingPlate with no other profiles, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "u1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("blank plate must not be stored, got %v", err)
	}

	// A driver without a vehicle must not look like a clash either.
	if err := svc.UpdateFCMToken(ctx, "u2", "token-2"); err != nil {
		t.Fatalf("seed u2: %v", err)
	}
	if _, err := svc.RegisterVehicle(ctx, "u1", sedan(" \t ")); !errors.Is(err, ErrMissingPlate) {
		t.Fatalf("expected ErrMissingPlate, got %v", err)
	}
	profile, err := svc.RegisterVehicle(ctx, "u1", sedan("ABC 1234"))
	if err != nil {
		t.Fatalf("register next to a vehicle-less driver: %v", err)
	}
	if !profile.HasVehicle() {
		t.Fatalf("expected registered vehicle, got %+v", profile)
	}
}

// racingRepo runs write once, just before the first repository call it sees.
type racingRepo struct {
	userRepo.UserRepository
	write func()
}

func (r *racingRepo) race() {
	if r.write != nil {
		w := r.write
		r.write = nil
		w()
	}
}

func (r *racingRepo) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	r.race()
	return r.UserRepository.GetByID(ctx, uid)
}

func (r *racingRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	r.race()
	return r.UserRepository.UpdateFields(ctx, uid, fields)
}

func (r *racingRepo) Save(ctx context.Context, profile *models.UserProfile) error {
	r.race()
	return r.UserRepository.Save(ctx, profile)
}

func TestSaveDriverInfoKeepsConcurrentWrites(t *testing.T) {
	base, repo := newProfileService(t)
	ctx := context.Background()
	if _, err := base.RegisterVehicle(ctx, "u1", sedan("ABC 1234")); err != nil {
		t.Fatalf("register: %v", err)
	}

	racing := &racingRepo{UserRepository: repo}
	racing.write = func() {
		if err := base.UpdateFCMToken(ctx, "u1", "token-new"); err != nil {
			t.Errorf("concurrent token update: %v", err)
		}
		if _, err := base.RegisterVehicle(ctx, "u1", sedan("XYZ 9876")); err != nil {
			t.Errorf("concurrent vehicle update: %v", err)
		}
	}
	svc := &DefaultProfileService{Repo: racing, Timeout: time.Second, Now: base.Now}

	profile, err := svc.SaveDriverInfo(ctx, "u1", models.DriverInfo{FullName: "Maria Santos", ContactNumber: "09171234567"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if profile.FCMToken != "token-new" || profile.PlateNumber != "XYZ 9876" || profile.FullName != "Maria Santos" {
		t.Fatalf("concurrent writes lost: %+v", profile)
	}
}
