package profile

import (
	"context"
	"errors"
	"time"

	profiledomain "giftcircle/internal/domain/profile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID, familyID string) (*profiledomain.Profile, error) {
	var p profiledomain.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND family_id = ?", userID, familyID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profiledomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) ListProfiles(ctx context.Context, familyID string) ([]profiledomain.Profile, error) {
	var profiles []profiledomain.Profile
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("updated_at desc").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpsertProfile creates the row lazily on first edit and overwrites the
// preference fields afterwards, keyed on the (user, family) pair.
func (r *PostgresRepository) UpsertProfile(ctx context.Context, p *profiledomain.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "family_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"shoe_size":            p.ShoeSize,
				"pant_size":            p.PantSize,
				"shirt_size":           p.ShirtSize,
				"dress_size":           p.DressSize,
				"ring_size":            p.RingSize,
				"favorite_colors":      p.FavoriteColors,
				"hobbies":              p.Hobbies,
				"interests":            p.Interests,
				"vehicle_make":         p.VehicleMake,
				"vehicle_model":        p.VehicleModel,
				"vehicle_year":         p.VehicleYear,
				"allergies":            p.Allergies,
				"dietary_restrictions": p.DietaryRestrictions,
				"notes":                p.Notes,
				"birthday":             p.Birthday,
				"anniversary":          p.Anniversary,
				"updated_at":           time.Now().UTC(),
			}),
		}).
		Create(p).Error
}
