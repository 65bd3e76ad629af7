package identity

import (
	"context"
	"errors"
	"time"

	identitydomain "giftcircle/internal/domain/identity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.User{}).
		Where("id = ?", userID).
		Update("email_verified", time.Now().UTC()).Error
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&identitydomain.User{}, "id = ?", userID).Error
}

func (r *PostgresRepository) GetToken(ctx context.Context, token string) (*identitydomain.VerificationToken, error) {
	var record identitydomain.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrTokenNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ReplaceToken enforces at most one active token per identifier with a
// delete-then-insert inside one transaction.
func (r *PostgresRepository) ReplaceToken(ctx context.Context, token *identitydomain.VerificationToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identifier = ?", token.Identifier).
			Delete(&identitydomain.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *PostgresRepository) DeleteToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&identitydomain.VerificationToken{}, "token = ?", token).Error
}
