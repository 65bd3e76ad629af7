package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	GetToken(ctx context.Context, token string) (*VerificationToken, error)
	ReplaceToken(ctx context.Context, token *VerificationToken) error
	DeleteToken(ctx context.Context, token string) error
}
