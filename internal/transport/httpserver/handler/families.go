package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "giftcircle/internal/domain/family"
	"giftcircle/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	Name string `json:"name"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
}

type updateFamilyRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

type familyResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type familyMemberResponse struct {
	MemberID string    `json:"member_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Email    string    `json:"email"`
	Name     *string   `json:"name"`
	ImageURL *string   `json:"image_url"`
}

func toFamilyResponse(f *familydomain.Family) familyResponse {
	return familyResponse{
		ID:         f.ID,
		Name:       f.Name,
		InviteCode: familydomain.FormatCode(f.InviteCode),
		CreatedBy:  f.CreatedBy,
		CreatedAt:  f.CreatedAt,
	}
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNameTooShort),
			errors.Is(err, familydomain.ErrNameTooLong):
			h.log.BusinessError("families.create: invalid name", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_name", "family name must be between 2 and 50 characters")
		default:
			h.log.InternalError("families.create: create family failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.JoinFamily(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInviteCodeNotFound):
			h.log.BusinessError("families.join: invite code not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invite_code_not_found", "invite code not found")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("families.join: already a member", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_member", "already a member of this family")
		default:
			h.log.InternalError("families.join: join family failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	families, err := h.Families.ListFamilies(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("families.list: list families failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]familyResponse, 0, len(families))
	for i := range families {
		response = append(response, toFamilyResponse(&families[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")

	result, err := h.Families.GetFamily(r.Context(), familyID)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get: family not found", err, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get: get family failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	familyID := chi.URLParam(r, "family_id")

	result, err := h.Families.UpdateFamily(r.Context(), familyID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.update: family not found", err, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, familydomain.ErrNameTooShort),
			errors.Is(err, familydomain.ErrNameTooLong):
			h.log.BusinessError("families.update: invalid name", err, "family_id", familyID)
			writeError(w, http.StatusBadRequest, "invalid_name", "family name must be between 2 and 50 characters")
		default:
			h.log.InternalError("families.update: update family failed", err, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")

	if err := h.Families.DeleteFamily(r.Context(), familyID); err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.delete: family not found", err, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.delete: delete family failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")

	members, err := h.Families.ListMembers(r.Context(), familyID)
	if err != nil {
		h.log.InternalError("families.list_members: list members failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]familyMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, familyMemberResponse{
			MemberID: member.MemberID,
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
			Email:    member.Email,
			Name:     member.Name,
			ImageURL: member.ImageURL,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")
	memberID := chi.URLParam(r, "member_id")

	if err := h.Families.RemoveMember(r.Context(), familyID, memberID, user.ID); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.remove_member: member not found", err, "family_id", familyID, "member_id", memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, familydomain.ErrCannotRemoveSelf):
			h.log.BusinessError("families.remove_member: cannot remove self", err, "family_id", familyID, "actor_id", user.ID)
			writeError(w, http.StatusConflict, "cannot_remove_self", "cannot remove yourself from the family")
		case errors.Is(err, familydomain.ErrLastAdmin):
			h.log.BusinessError("families.remove_member: last admin", err, "family_id", familyID, "member_id", memberID)
			writeError(w, http.StatusConflict, "last_admin", "cannot remove the last admin")
		default:
			h.log.InternalError("families.remove_member: remove member failed", err, "family_id", familyID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) InviteToFamily(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")

	if err := h.Families.InviteByEmail(r.Context(), familyID, user.Name, req.Email); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.invite: family not found", err, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, familydomain.ErrInviteeAlreadyMember):
			h.log.BusinessError("families.invite: invitee already member", err, "family_id", familyID)
			writeError(w, http.StatusConflict, "already_member", "this person is already a member of the family")
		default:
			h.log.InternalError("families.invite: invite failed", err, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
