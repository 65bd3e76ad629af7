package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

// Notifier delivers account emails. Failures are the caller's concern;
// the service treats verification and welcome mail as fire-and-forget.
type Notifier interface {
	SendVerificationEmail(email, name, token string)
	SendWelcomeEmail(email, name string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrEmailInvalid
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = &name
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		return tx.ReplaceToken(ctx, &VerificationToken{
			Identifier: email,
			Token:      token,
			Expires:    s.now().Add(tokenTTL),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendVerificationEmail(user.Email, displayName(&user), token)
	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Verify(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenNotFound
	}

	record, err := s.repo.GetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if record.IsExpired(s.now()) {
		// removed outside the verification transaction so the delete
		// commits even though the request fails
		if err := s.repo.DeleteToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	var user User
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		// re-read under the transaction; a concurrent Verify may have
		// consumed the token since the expiry check
		record, err := tx.GetToken(ctx, token)
		if err != nil {
			return err
		}

		found, err := tx.GetUserByEmail(ctx, record.Identifier)
		if err != nil {
			return err
		}
		if found.IsVerified() {
			return ErrAlreadyVerified
		}

		if err := tx.MarkVerified(ctx, found.ID); err != nil {
			return err
		}
		if err := tx.DeleteToken(ctx, token); err != nil {
			return err
		}

		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendWelcomeEmail(user.Email, displayName(&user))
	return &user, nil
}

// ResendVerification never tells the caller whether the account exists.
// A new token is issued only for existing, unverified accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	if err := s.repo.ReplaceToken(ctx, &VerificationToken{
		Identifier: email,
		Token:      token,
		Expires:    s.now().Add(tokenTTL),
	}); err != nil {
		return err
	}

	s.notifier.SendVerificationEmail(user.Email, displayName(user), token)
	return nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.DeleteUser(ctx, userID)
}

func generateToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

func displayName(user *User) string {
	if user.Name != nil && *user.Name != "" {
		return *user.Name
	}
	return user.Email
}
