package service

import (
	"context"
	"errors"
	"fmt"

	"invoicer/internal/model"
	"invoicer/internal/repository"

	"gorm.io/gorm"
)

// --- DTOs ---

type UpdateProfileRequest struct {
	CompanyName     *string `json:"company_name"`
	CompanyEmail    *string `json:"company_email"`
	CompanyAddress  *string `json:"company_address"`
	CompanyPhone    *string `json:"company_phone"`
	CompanyWebsite  *string `json:"company_website"`
	CompanyLogoURL  *string `json:"company_logo_url"`
	CompanyTaxID    *string `json:"company_tax_id"`
	DefaultCurrency *string `json:"default_currency"`
	DefaultTaxRate  *string `json:"default_tax_rate"`
	DefaultNotes    *string `json:"default_notes"`
	DefaultTerms    *string `json:"default_terms"`
}

type ProfileResponse struct {
	ID              string `json:"id"`
	CompanyName     string `json:"company_name"`
	CompanyEmail    string `json:"company_email"`
	CompanyAddress  string `json:"company_address"`
	CompanyPhone    string `json:"company_phone"`
	CompanyWebsite  string `json:"company_website"`
	CompanyLogoURL  string `json:"company_logo_url"`
	CompanyTaxID    string `json:"company_tax_id"`
	DefaultCurrency string `json:"default_currency"`
	DefaultTaxRate  string `json:"default_tax_rate"`
	DefaultNotes    string `json:"default_notes"`
	DefaultTerms    string `json:"default_terms"`
}

// --- Interface ---

type ProfileService interface {
	GetProfile(ctx context.Context) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// --- Implementation ---

func (s *profileService) GetProfile(ctx context.Context) (ProfileResponse, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No profile saved yet; return an empty one with defaults.
			return toProfileResponse(model.Profile{DefaultCurrency: defaultCurrency}), nil
		}
		return ProfileResponse{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return toProfileResponse(*profile), nil
}

// UpdateProfile upserts the single profile row.
func (s *profileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = &model.Profile{DefaultCurrency: defaultCurrency}
	}

	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.CompanyEmail != nil {
		profile.CompanyEmail = *req.CompanyEmail
	}
	if req.CompanyAddress != nil {
		profile.CompanyAddress = *req.CompanyAddress
	}
	if req.CompanyPhone != nil {
		profile.CompanyPhone = *req.CompanyPhone
	}
	if req.CompanyWebsite != nil {
		profile.CompanyWebsite = *req.CompanyWebsite
	}
	if req.CompanyLogoURL != nil {
		profile.CompanyLogoURL = *req.CompanyLogoURL
	}
	if req.CompanyTaxID != nil {
		profile.CompanyTaxID = *req.CompanyTaxID
	}
	if req.DefaultCurrency != nil {
		profile.DefaultCurrency = *req.DefaultCurrency
	}
	if req.DefaultTaxRate != nil {
		profile.DefaultTaxRate = parseOrZero(*req.DefaultTaxRate)
	}
	if req.DefaultNotes != nil {
		profile.DefaultNotes = *req.DefaultNotes
	}
	if req.DefaultTerms != nil {
		profile.DefaultTerms = *req.DefaultTerms
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to save profile: %w", err)
	}

	return toProfileResponse(*profile), nil
}

// --- Mapping ---

func toProfileResponse(p model.Profile) ProfileResponse {
	return ProfileResponse{
		ID:              p.ID.String(),
		CompanyName:     p.CompanyName,
		CompanyEmail:    p.CompanyEmail,
		CompanyAddress:  p.CompanyAddress,
		CompanyPhone:    p.CompanyPhone,
		CompanyWebsite:  p.CompanyWebsite,
		CompanyLogoURL:  p.CompanyLogoURL,
		CompanyTaxID:    p.CompanyTaxID,
		DefaultCurrency: p.DefaultCurrency,
		DefaultTaxRate:  p.DefaultTaxRate.StringFixed(4),
		DefaultNotes:    p.DefaultNotes,
		DefaultTerms:    p.DefaultTerms,
	}
}
