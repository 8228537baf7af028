package repository

import (
	"context"

	"invoicer/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository persists the single company profile row.
type ProfileRepository interface {
	Get(ctx context.Context) (*model.Profile, error)
	Save(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Get returns the profile row, or gorm.ErrRecordNotFound before the
// first save.
func (r *profileRepository) Get(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).Order("created_at asc").First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}
