package handler

import (
	"errors"
	"net/http"
	"time"

	profiledomain "giftcircle/internal/domain/profile"
	"giftcircle/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type upsertProfileRequest struct {
	ShoeSize  *string `json:"shoe_size"`
	PantSize  *string `json:"pant_size"`
	ShirtSize *string `json:"shirt_size"`
	DressSize *string `json:"dress_size"`
	RingSize  *string `json:"ring_size"`

	FavoriteColors []string `json:"favorite_colors"`
	Hobbies        []string `json:"hobbies"`
	Interests      []string `json:"interests"`

	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleYear  *int    `json:"vehicle_year"`

	Allergies           *string `json:"allergies"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	Notes               *string `json:"notes"`

	Birthday    *time.Time `json:"birthday"`
	Anniversary *time.Time `json:"anniversary"`
}

type profileResponse struct {
	UserID   string `json:"user_id"`
	FamilyID string `json:"family_id"`

	ShoeSize  *string `json:"shoe_size"`
	PantSize  *string `json:"pant_size"`
	ShirtSize *string `json:"shirt_size"`
	DressSize *string `json:"dress_size"`
	RingSize  *string `json:"ring_size"`

	FavoriteColors []string `json:"favorite_colors"`
	Hobbies        []string `json:"hobbies"`
	Interests      []string `json:"interests"`

	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleYear  *int    `json:"vehicle_year"`

	Allergies           *string `json:"allergies"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	Notes               *string `json:"notes"`

	Birthday    *time.Time `json:"birthday"`
	Anniversary *time.Time `json:"anniversary"`

	Completion int       `json:"completion"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProfileResponse(p *profiledomain.Profile) profileResponse {
	return profileResponse{
		UserID:              p.UserID,
		FamilyID:            p.FamilyID,
		ShoeSize:            p.ShoeSize,
		PantSize:            p.PantSize,
		ShirtSize:           p.ShirtSize,
		DressSize:           p.DressSize,
		RingSize:            p.RingSize,
		FavoriteColors:      p.FavoriteColors,
		Hobbies:             p.Hobbies,
		Interests:           p.Interests,
		VehicleMake:         p.VehicleMake,
		VehicleModel:        p.VehicleModel,
		VehicleYear:         p.VehicleYear,
		Allergies:           p.Allergies,
		DietaryRestrictions: p.DietaryRestrictions,
		Notes:               p.Notes,
		Birthday:            p.Birthday,
		Anniversary:         p.Anniversary,
		Completion:          p.CompletionPercentage(),
		UpdatedAt:           p.UpdatedAt,
	}
}

func (h *Handlers) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	var req upsertProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")

	result, err := h.Profiles.Upsert(r.Context(), user.ID, familyID, profiledomain.UpsertInput{
		ShoeSize:            req.ShoeSize,
		PantSize:            req.PantSize,
		ShirtSize:           req.ShirtSize,
		DressSize:           req.DressSize,
		RingSize:            req.RingSize,
		FavoriteColors:      req.FavoriteColors,
		Hobbies:             req.Hobbies,
		Interests:           req.Interests,
		VehicleMake:         req.VehicleMake,
		VehicleModel:        req.VehicleModel,
		VehicleYear:         req.VehicleYear,
		Allergies:           req.Allergies,
		DietaryRestrictions: req.DietaryRestrictions,
		Notes:               req.Notes,
		Birthday:            req.Birthday,
		Anniversary:         req.Anniversary,
	})
	if err != nil {
		h.log.InternalError("profiles.upsert: upsert failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(result))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")
	userID := chi.URLParam(r, "user_id")

	result, err := h.Profiles.Get(r.Context(), userID, familyID)
	if err != nil {
		if errors.Is(err, profiledomain.ErrProfileNotFound) {
			h.log.BusinessError("profiles.get: profile not found", err, "user_id", userID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		h.log.InternalError("profiles.get: get profile failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(result))
}

func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")

	profiles, err := h.Profiles.List(r.Context(), familyID)
	if err != nil {
		h.log.InternalError("profiles.list: list profiles failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		response = append(response, toProfileResponse(&profiles[i]))
	}
	writeJSON(w, http.StatusOK, response)
}
