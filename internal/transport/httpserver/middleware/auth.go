package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"giftcircle/internal/auth"
	identitydomain "giftcircle/internal/domain/identity"
)

type contextKey int

const userKey contextKey = iota

type User struct {
	ID    string
	Email string
	Name  string
}

// UserLoader fetches the account behind a validated token so stale
// tokens for deleted users stop working immediately.
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*identitydomain.User, error)
}

type Auth struct {
	tokens *auth.Tokens
	users  UserLoader
}

func NewAuth(tokens *auth.Tokens, users UserLoader) *Auth {
	return &Auth{tokens: tokens, users: users}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			unauthorized(w)
			return
		}

		account, err := a.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			unauthorized(w)
			return
		}

		user := User{ID: account.ID, Email: account.Email}
		if account.Name != nil {
			user.Name = *account.Name
		}

		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
