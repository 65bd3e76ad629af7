package wishlist

import (
	"context"
	"errors"
	"time"

	wishlistdomain "giftcircle/internal/domain/wishlist"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetItem(ctx context.Context, itemID string) (*wishlistdomain.Item, error) {
	var item wishlistdomain.Item
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wishlistdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, filter wishlistdomain.ListFilter) ([]wishlistdomain.Item, error) {
	query := r.db.WithContext(ctx).Where("family_id = ?", filter.FamilyID)
	if filter.OwnerID != "" {
		query = query.Where("user_id = ?", filter.OwnerID)
	}

	var items []wishlistdomain.Item
	if err := query.
		Order("case priority when 'HIGH' then 0 when 'MEDIUM' then 1 else 2 end, created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListItemsByOwner(ctx context.Context, userID string) ([]wishlistdomain.Item, error) {
	var items []wishlistdomain.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *wishlistdomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *wishlistdomain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Delete(&wishlistdomain.Item{}, "id = ?", itemID).Error
}

// ClaimItem is a compare-and-set: the guard on claimed_by being NULL
// makes the row update the arbiter when two claims race.
func (r *PostgresRepository) ClaimItem(ctx context.Context, itemID, claimerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&wishlistdomain.Item{}).
		Where("id = ? AND claimed_by IS NULL", itemID).
		Updates(map[string]interface{}{
			"claimed_by": claimerID,
			"claimed_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) UnclaimItem(ctx context.Context, itemID, claimerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&wishlistdomain.Item{}).
		Where("id = ? AND claimed_by = ?", itemID, claimerID).
		Updates(map[string]interface{}{
			"claimed_by": nil,
			"claimed_at": nil,
			"purchased":  false,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) MarkPurchased(ctx context.Context, itemID, claimerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&wishlistdomain.Item{}).
		Where("id = ? AND claimed_by = ?", itemID, claimerID).
		Update("purchased", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
