package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// FamilyGate answers membership questions for the family carried in
// the URL. GroupGate does the same for gift groups.
type FamilyGate interface {
	IsMember(ctx context.Context, familyID, userID string) (bool, error)
	IsAdmin(ctx context.Context, familyID, userID string) (bool, error)
}

type GroupGate interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// RequireFamilyMember rejects requests whose caller does not belong to
// the family named by the family_id URL param.
func RequireFamilyMember(gate FamilyGate) func(http.Handler) http.Handler {
	return requireFamily(gate.IsMember, "not_member", "not a member of this family")
}

// RequireFamilyAdmin rejects callers without the admin role in the
// family named by the family_id URL param.
func RequireFamilyAdmin(gate FamilyGate) func(http.Handler) http.Handler {
	return requireFamily(gate.IsAdmin, "not_admin", "admin role required")
}

func requireFamily(check func(ctx context.Context, familyID, userID string) (bool, error), code, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			familyID := strings.TrimSpace(chi.URLParam(r, "family_id"))
			if familyID == "" {
				writeError(w, http.StatusBadRequest, "invalid_request", "family_id is required")
				return
			}

			allowed, err := check(r.Context(), familyID, user.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, code, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireGroupMember rejects callers who do not belong to the gift
// group named by the group_id URL param.
func RequireGroupMember(gate GroupGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			groupID := strings.TrimSpace(chi.URLParam(r, "group_id"))
			if groupID == "" {
				writeError(w, http.StatusBadRequest, "invalid_request", "group_id is required")
				return
			}

			allowed, err := gate.IsMember(r.Context(), groupID, user.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "not_group_member", "not a member of this gift group")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
