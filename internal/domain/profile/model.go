package profile

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds a user's gift preferences inside one family. A user has
// at most one profile per family; the row is created lazily on first edit.
type Profile struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_profile_user_family"`
	FamilyID string `gorm:"type:uuid;not null;uniqueIndex:idx_profile_user_family"`

	ShoeSize  *string `gorm:"size:50"`
	PantSize  *string `gorm:"size:50"`
	ShirtSize *string `gorm:"size:50"`
	DressSize *string `gorm:"size:50"`
	RingSize  *string `gorm:"size:50"`

	FavoriteColors datatypes.JSONSlice[string]
	Hobbies        datatypes.JSONSlice[string]
	Interests      datatypes.JSONSlice[string]

	VehicleMake  *string `gorm:"size:100"`
	VehicleModel *string `gorm:"size:100"`
	VehicleYear  *int

	Allergies           *string `gorm:"size:500"`
	DietaryRestrictions *string `gorm:"size:500"`
	Notes               *string `gorm:"type:text"`

	Birthday    *time.Time
	Anniversary *time.Time

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CompletionPercentage counts the preference fields that carry a value.
func (p *Profile) CompletionPercentage() int {
	filled := 0
	total := 0

	for _, s := range []*string{
		p.ShoeSize, p.PantSize, p.ShirtSize, p.DressSize, p.RingSize,
		p.VehicleMake, p.VehicleModel,
		p.Allergies, p.DietaryRestrictions, p.Notes,
	} {
		total++
		if s != nil && *s != "" {
			filled++
		}
	}
	for _, l := range []datatypes.JSONSlice[string]{p.FavoriteColors, p.Hobbies, p.Interests} {
		total++
		if len(l) > 0 {
			filled++
		}
	}
	total++
	if p.VehicleYear != nil {
		filled++
	}
	for _, t := range []*time.Time{p.Birthday, p.Anniversary} {
		total++
		if t != nil {
			filled++
		}
	}

	return filled * 100 / total
}

func (Profile) TableName() string { return "profiles" }
