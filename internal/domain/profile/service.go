package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type UpsertInput struct {
	ShoeSize  *string
	PantSize  *string
	ShirtSize *string
	DressSize *string
	RingSize  *string

	FavoriteColors []string
	Hobbies        []string
	Interests      []string

	VehicleMake  *string
	VehicleModel *string
	VehicleYear  *int

	Allergies           *string
	DietaryRestrictions *string
	Notes               *string

	Birthday    *time.Time
	Anniversary *time.Time
}

func (s *Service) Upsert(ctx context.Context, userID, familyID string, input UpsertInput) (*Profile, error) {
	p := Profile{
		ID:                  uuid.NewString(),
		UserID:              userID,
		FamilyID:            familyID,
		ShoeSize:            input.ShoeSize,
		PantSize:            input.PantSize,
		ShirtSize:           input.ShirtSize,
		DressSize:           input.DressSize,
		RingSize:            input.RingSize,
		FavoriteColors:      datatypes.NewJSONSlice(input.FavoriteColors),
		Hobbies:             datatypes.NewJSONSlice(input.Hobbies),
		Interests:           datatypes.NewJSONSlice(input.Interests),
		VehicleMake:         input.VehicleMake,
		VehicleModel:        input.VehicleModel,
		VehicleYear:         input.VehicleYear,
		Allergies:           input.Allergies,
		DietaryRestrictions: input.DietaryRestrictions,
		Notes:               input.Notes,
		Birthday:            input.Birthday,
		Anniversary:         input.Anniversary,
	}

	if err := s.repo.UpsertProfile(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, userID, familyID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID, familyID)
}

func (s *Service) List(ctx context.Context, familyID string) ([]Profile, error) {
	return s.repo.ListProfiles(ctx, familyID)
}
