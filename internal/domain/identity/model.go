package identity

import "time"

type User struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	Email         string     `gorm:"size:255;not null;uniqueIndex"`
	Name          *string    `gorm:"size:255"`
	ImageURL      *string    `gorm:"size:500"`
	PasswordHash  string     `gorm:"size:255;not null"`
	EmailVerified *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}

// VerificationToken proves ownership of an email address. The identifier
// is the email itself; at most one token is active per identifier.
type VerificationToken struct {
	Identifier string    `gorm:"size:255;primaryKey"`
	Token      string    `gorm:"size:255;not null;uniqueIndex"`
	Expires    time.Time `gorm:"not null"`
}

func (t *VerificationToken) IsExpired(now time.Time) bool {
	return now.After(t.Expires)
}

func (User) TableName() string { return "users" }

func (VerificationToken) TableName() string { return "verification_tokens" }
