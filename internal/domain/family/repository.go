package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	ListFamiliesByUser(ctx context.Context, userID string) ([]Family, error)
	GetMember(ctx context.Context, familyID, userID string) (*Member, error)
	GetMemberByID(ctx context.Context, memberID string) (*Member, error)
	ListMembers(ctx context.Context, familyID string) ([]MemberDetail, error)
	CreateFamily(ctx context.Context, family *Family) error
	AddMember(ctx context.Context, member *Member) error
	UpdateFamilyName(ctx context.Context, familyID, name string) error
	DeleteFamily(ctx context.Context, familyID string) error
	DeleteMember(ctx context.Context, memberID string) error
	CountAdmins(ctx context.Context, familyID string) (int64, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	UserEmailInFamily(ctx context.Context, familyID, email string) (bool, error)
}
