package userRepo

import (
	"context"
	"encoding/json"
	"fmt"

	"findmyspot/database"
	"findmyspot/models"
)

func userPath(uid string) string {
	return database.Join(UsersRoot, uid)
}

func decodeProfile(uid string, raw json.RawMessage) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return profile, fmt.Errorf("%w: user %s: %v", models.ErrInvalidRecord, uid, err)
	}
	profile.UID = uid
	return profile, nil
}

// GetByID retrieves a profile by uid.
func (r *StoreUserRepo) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if err := database.ValidateKey(uid); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	found, err := r.store.Get(ctx, userPath(uid), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch user %s: %v", models.ErrStoreUnavailable, uid, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, uid)
	}
	profile, err := decodeProfile(uid, raw)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAll retrieves every profile. Records that fail to parse are skipped so one
// malformed profile cannot block every other user.
func (r *StoreUserRepo) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	children, err := r.store.Children(ctx, UsersRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve users: %v", models.ErrStoreUnavailable, err)
	}
	users := make([]models.UserProfile, 0, len(children))
	for _, c := range children {
		profile, err := decodeProfile(c.Key, c.Value)
		if err != nil {
			continue
		}
		users = append(users, profile)
	}
	return users, nil
}

// Save writes the full profile.
func (r *StoreUserRepo) Save(ctx context.Context, profile *models.UserProfile) error {
	if err := database.ValidateKey(profile.UID); err != nil {
		return err
	}
	if err := r.store.Set(ctx, userPath(profile.UID), profile); err != nil {
		return fmt.Errorf("%w: failed to save user %s: %v", models.ErrStoreUnavailable, profile.UID, err)
	}
	return nil
}

// UpdateFields merges fields into the stored profile.
func (r *StoreUserRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if err := database.ValidateKey(uid); err != nil {
		return err
	}
	if err := r.store.Update(ctx, userPath(uid), fields); err != nil {
		return fmt.Errorf("%w: failed to update user %s: %v", models.ErrStoreUnavailable, uid, err)
	}
	return nil
}
