package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeIdentityRepo struct {
	usersByID    map[string]*User
	usersByEmail map[string]*User
	tokens       map[string]*VerificationToken
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		usersByID:    make(map[string]*User),
		usersByEmail: make(map[string]*User),
		tokens:       make(map[string]*VerificationToken),
	}
}

// Transaction mirrors the real repository's rollback: any state the
// callback wrote is restored when it returns an error.
func (r *fakeIdentityRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	snapshot := r.clone()
	if err := fn(r); err != nil {
		r.usersByID = snapshot.usersByID
		r.usersByEmail = snapshot.usersByEmail
		r.tokens = snapshot.tokens
		return err
	}
	return nil
}

func (r *fakeIdentityRepo) clone() *fakeIdentityRepo {
	copied := newFakeIdentityRepo()
	for id, user := range r.usersByID {
		u := *user
		copied.usersByID[id] = &u
		copied.usersByEmail[u.Email] = &u
	}
	for value, record := range r.tokens {
		rec := *record
		copied.tokens[value] = &rec
	}
	return copied
}

func (r *fakeIdentityRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeIdentityRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.usersByEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeIdentityRepo) CreateUser(ctx context.Context, user *User) error {
	r.usersByID[user.ID] = user
	r.usersByEmail[user.Email] = user
	return nil
}

func (r *fakeIdentityRepo) MarkVerified(ctx context.Context, userID string) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now().UTC()
	user.EmailVerified = &now
	return nil
}

func (r *fakeIdentityRepo) DeleteUser(ctx context.Context, userID string) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.usersByEmail, user.Email)
	delete(r.usersByID, userID)
	return nil
}

func (r *fakeIdentityRepo) GetToken(ctx context.Context, token string) (*VerificationToken, error) {
	record, ok := r.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return record, nil
}

func (r *fakeIdentityRepo) ReplaceToken(ctx context.Context, token *VerificationToken) error {
	for value, record := range r.tokens {
		if record.Identifier == token.Identifier {
			delete(r.tokens, value)
		}
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeIdentityRepo) DeleteToken(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeNotifier struct {
	verifications []string
	welcomes      []string
}

func (n *fakeNotifier) SendVerificationEmail(email, name, token string) {
	n.verifications = append(n.verifications, token)
}

func (n *fakeNotifier) SendWelcomeEmail(email, name string) {
	n.welcomes = append(n.welcomes, email)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeIdentityRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:           "  Alice@Example.COM ",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		Name:            "Alice",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "supersecret" {
		t.Fatalf("password stored in plain text")
	}
	if user.IsVerified() {
		t.Fatalf("new account should not be verified")
	}
	if len(notifier.verifications) != 1 {
		t.Fatalf("expected a verification email, got %d", len(notifier.verifications))
	}

	got, err := svc.Login(context.Background(), "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeIdentityRepo(), &fakeNotifier{})

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"empty email", RegisterInput{Password: "supersecret", ConfirmPassword: "supersecret"}, ErrEmailRequired},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "supersecret", ConfirmPassword: "supersecret"}, ErrEmailInvalid},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", ConfirmPassword: "short"}, ErrPasswordTooShort},
		{"mismatch", RegisterInput{Email: "a@b.com", Password: "supersecret", ConfirmPassword: "different1"}, ErrPasswordMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewService(repo, &fakeNotifier{})

	input := RegisterInput{Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewService(repo, &fakeNotifier{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.Login(context.Background(), "a@b.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@b.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestVerifySuccess(t *testing.T) {
	repo := newFakeIdentityRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	token := notifier.verifications[0]
	verified, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if verified.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, verified.ID)
	}
	if !repo.usersByID[user.ID].IsVerified() {
		t.Fatalf("expected user marked verified")
	}
	if _, ok := repo.tokens[token]; ok {
		t.Fatalf("expected token consumed")
	}
	if len(notifier.welcomes) != 1 {
		t.Fatalf("expected a welcome email, got %d", len(notifier.welcomes))
	}

	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on reuse, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	repo := newFakeIdentityRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	token := notifier.verifications[0]
	svc.now = func() time.Time { return time.Now().UTC().Add(25 * time.Hour) }

	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	// the delete must commit even though Verify fails; with the fake's
	// rollback semantics this catches deletes done inside the failing
	// transaction
	if _, ok := repo.tokens[token]; ok {
		t.Fatalf("expected expired token deleted alongside the error")
	}
	if repo.usersByEmail["a@b.com"].IsVerified() {
		t.Fatalf("expected user still unverified")
	}

	// a retry with the now-deleted token reports not-found
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on reuse, got %v", err)
	}
}

func TestVerifyAlreadyVerified(t *testing.T) {
	repo := newFakeIdentityRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	now := time.Now().UTC()
	repo.usersByID[user.ID].EmailVerified = &now

	if _, err := svc.Verify(context.Background(), notifier.verifications[0]); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	repo := newFakeIdentityRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "supersecret", ConfirmPassword: "supersecret",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	first := notifier.verifications[0]

	if err := svc.ResendVerification(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(notifier.verifications) != 2 {
		t.Fatalf("expected a second verification email, got %d", len(notifier.verifications))
	}
	second := notifier.verifications[1]
	if second == first {
		t.Fatalf("expected a fresh token")
	}
	if _, ok := repo.tokens[first]; ok {
		t.Fatalf("expected old token replaced")
	}
	if _, ok := repo.tokens[second]; !ok {
		t.Fatalf("expected new token stored")
	}

	// unknown and verified accounts answer identically
	if err := svc.ResendVerification(context.Background(), "nobody@b.com"); err != nil {
		t.Fatalf("expected no error for unknown email, got %v", err)
	}
	if len(notifier.verifications) != 2 {
		t.Fatalf("unknown email must not trigger email")
	}
}
