package family

import (
	"context"
	"errors"
	"time"

	familydomain "giftcircle/internal/domain/family"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var fam familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&fam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &fam, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var fam familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&fam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInviteCodeNotFound
		}
		return nil, err
	}
	return &fam, nil
}

func (r *PostgresRepository) ListFamiliesByUser(ctx context.Context, userID string) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).
		Table("families").
		Joins("join family_members on family_members.family_id = families.id").
		Where("family_members.user_id = ?", userID).
		Order("families.created_at desc").
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.Member, error) {
	var member familydomain.Member
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND user_id = ?", familyID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, memberID string) (*familydomain.Member, error) {
	var member familydomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.MemberDetail, error) {
	type memberRow struct {
		MemberID string    `gorm:"column:member_id"`
		UserID   string    `gorm:"column:user_id"`
		Role     string    `gorm:"column:role"`
		JoinedAt time.Time `gorm:"column:joined_at"`
		Email    string    `gorm:"column:email"`
		Name     *string   `gorm:"column:name"`
		ImageURL *string   `gorm:"column:image_url"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.id as member_id, family_members.user_id, family_members.role, family_members.joined_at, users.email, users.name, users.image_url").
		Joins("join users on users.id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.MemberDetail, 0, len(rows))
	for _, row := range rows {
		members = append(members, familydomain.MemberDetail{
			MemberID: row.MemberID,
			UserID:   row.UserID,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
			Email:    row.Email,
			Name:     row.Name,
			ImageURL: row.ImageURL,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, fam *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(fam).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	return r.db.WithContext(ctx).
		Model(&familydomain.Family{}).
		Where("id = ?", familyID).
		Update("name", name).Error
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Member{}, "id = ?", memberID).Error
}

func (r *PostgresRepository) CountAdmins(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("family_id = ? AND role = ?", familyID, familydomain.RoleAdmin).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Family{}).
		Where("invite_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) UserEmailInFamily(ctx context.Context, familyID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Joins("join users on users.id = family_members.user_id").
		Where("family_members.family_id = ? AND users.email = ?", familyID, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
