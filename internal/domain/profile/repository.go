package profile

import "context"

type Repository interface {
	GetProfile(ctx context.Context, userID, familyID string) (*Profile, error)
	ListProfiles(ctx context.Context, familyID string) ([]Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}
