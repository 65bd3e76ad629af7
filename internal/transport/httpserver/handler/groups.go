package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	giftgroupdomain "giftcircle/internal/domain/giftgroup"
	"giftcircle/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createGroupRequest struct {
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Occasion     *string    `json:"occasion"`
	OccasionDate *time.Time `json:"occasion_date"`
	TargetUserID *string    `json:"target_user_id"`
	TargetAmount *string    `json:"target_amount"`
	MemberIDs    []string   `json:"member_ids"`
}

type updateGroupRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Occasion     *string    `json:"occasion"`
	OccasionDate *time.Time `json:"occasion_date"`
	TargetAmount *string    `json:"target_amount"`
	IsActive     *bool      `json:"is_active"`
}

type contributeRequest struct {
	Amount  string `json:"amount"`
	HasPaid *bool  `json:"has_paid"`
}

type postMessageRequest struct {
	Content       string  `json:"content"`
	AttachmentURL *string `json:"attachment_url"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

type groupResponse struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`

	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Occasion     *string    `json:"occasion"`
	OccasionDate *time.Time `json:"occasion_date"`
	TargetUserID *string    `json:"target_user_id"`

	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	Progress      int              `json:"progress"`

	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type groupMemberResponse struct {
	UserID             string          `json:"user_id"`
	ContributionAmount decimal.Decimal `json:"contribution_amount"`
	HasPaid            bool            `json:"has_paid"`
	JoinedAt           time.Time       `json:"joined_at"`
}

type messageResponse struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content"`
	AttachmentURL *string   `json:"attachment_url"`
	IsEdited      bool      `json:"is_edited"`
	CreatedAt     time.Time `json:"created_at"`
}

func toGroupResponse(g *giftgroupdomain.Group) groupResponse {
	return groupResponse{
		ID:            g.ID,
		FamilyID:      g.FamilyID,
		Name:          g.Name,
		Description:   g.Description,
		Occasion:      g.Occasion,
		OccasionDate:  g.OccasionDate,
		TargetUserID:  g.TargetUserID,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.ProgressPercentage(),
		IsActive:      g.IsActive,
		CreatedBy:     g.CreatedBy,
		CreatedAt:     g.CreatedAt,
	}
}

func toMessageResponse(m *giftgroupdomain.Message) messageResponse {
	return messageResponse{
		ID:            m.ID,
		GroupID:       m.GroupID,
		UserID:        m.UserID,
		Content:       m.Content,
		AttachmentURL: m.AttachmentURL,
		IsEdited:      m.IsEdited,
		CreatedAt:     m.CreatedAt,
	}
}

func parseAmount(value string) (*decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func (h *Handlers) CreateGiftGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
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

	input := giftgroupdomain.CreateGroupInput{
		Name:         req.Name,
		Description:  req.Description,
		Occasion:     req.Occasion,
		OccasionDate: req.OccasionDate,
		TargetUserID: req.TargetUserID,
		MemberIDs:    req.MemberIDs,
	}
	if req.TargetAmount != nil {
		amount, ok := parseAmount(*req.TargetAmount)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_amount", "target_amount is not a valid amount")
			return
		}
		input.TargetAmount = amount
	}

	group, err := h.Groups.CreateGroup(r.Context(), familyID, user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, giftgroupdomain.ErrGroupNameRequired):
			h.log.BusinessError("groups.create: name required", err, "family_id", familyID)
			writeError(w, http.StatusBadRequest, "invalid_name", "group name is required")
		case errors.Is(err, giftgroupdomain.ErrTargetAmountNegative):
			h.log.BusinessError("groups.create: negative target", err, "family_id", familyID)
			writeError(w, http.StatusBadRequest, "invalid_amount", "target amount cannot be negative")
		case errors.Is(err, giftgroupdomain.ErrMemberOutsideFamily):
			h.log.BusinessError("groups.create: member outside family", err, "family_id", familyID)
			writeError(w, http.StatusBadRequest, "member_outside_family", "all group members must belong to the family")
		default:
			h.log.InternalError("groups.create: create group failed", err, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// ListGiftGroups returns only the groups the caller belongs to, so a
// surprise gift pool stays invisible to its recipient.
func (h *Handlers) ListGiftGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")

	groups, err := h.Groups.ListGroups(r.Context(), familyID, user.ID)
	if err != nil {
		h.log.InternalError("groups.list: list groups failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for i := range groups {
		response = append(response, toGroupResponse(&groups[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetGiftGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")

	group, err := h.Groups.GetGroup(r.Context(), groupID)
	if err != nil {
		h.writeGroupError(w, "groups.get", err, groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) UpdateGiftGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")

	input := giftgroupdomain.UpdateGroupInput{
		Name:         req.Name,
		Description:  req.Description,
		Occasion:     req.Occasion,
		OccasionDate: req.OccasionDate,
		IsActive:     req.IsActive,
	}
	if req.TargetAmount != nil {
		amount, ok := parseAmount(*req.TargetAmount)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_amount", "target_amount is not a valid amount")
			return
		}
		input.TargetAmount = amount
	}

	group, err := h.Groups.UpdateGroup(r.Context(), groupID, user.ID, input)
	if err != nil {
		h.writeGroupError(w, "groups.update", err, groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) DeleteGiftGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")

	if err := h.Groups.DeleteGroup(r.Context(), groupID, user.ID); err != nil {
		h.writeGroupError(w, "groups.delete", err, groupID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListGiftGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")

	members, err := h.Groups.ListMembers(r.Context(), groupID)
	if err != nil {
		h.writeGroupError(w, "groups.list_members", err, groupID)
		return
	}

	response := make([]groupMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, groupMemberResponse{
			UserID:             member.UserID,
			ContributionAmount: member.ContributionAmount,
			HasPaid:            member.HasPaid,
			JoinedAt:           member.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) Contribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amount is not a valid amount")
		return
	}

	group, err := h.Groups.Contribute(r.Context(), groupID, user.ID, amount, req.HasPaid)
	if err != nil {
		if errors.Is(err, giftgroupdomain.ErrAmountNotPositive) {
			h.log.BusinessError("groups.contribute: amount not positive", err, "group_id", groupID)
			writeError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
			return
		}
		h.writeGroupError(w, "groups.contribute", err, groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) ListGroupMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")

	messages, err := h.Groups.ListMessages(r.Context(), groupID, user.ID)
	if err != nil {
		h.writeGroupError(w, "groups.list_messages", err, groupID)
		return
	}

	response := make([]messageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, toMessageResponse(&messages[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) PostGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")

	message, err := h.Groups.PostMessage(r.Context(), groupID, user.ID, req.Content, req.AttachmentURL)
	if err != nil {
		if errors.Is(err, giftgroupdomain.ErrContentRequired) {
			h.log.BusinessError("groups.post_message: empty content", err, "group_id", groupID)
			writeError(w, http.StatusBadRequest, "invalid_content", "message content is required")
			return
		}
		h.writeGroupError(w, "groups.post_message", err, groupID)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

func (h *Handlers) EditGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "group_id")
	messageID := chi.URLParam(r, "message_id")

	message, err := h.Groups.EditMessage(r.Context(), groupID, messageID, user.ID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, giftgroupdomain.ErrMessageNotFound):
			h.log.BusinessError("groups.edit_message: message not found", err, "message_id", messageID)
			writeError(w, http.StatusNotFound, "message_not_found", "message not found")
		case errors.Is(err, giftgroupdomain.ErrNotAuthor):
			h.log.BusinessError("groups.edit_message: not the author", err, "message_id", messageID)
			writeError(w, http.StatusForbidden, "not_author", "only the author can edit a message")
		case errors.Is(err, giftgroupdomain.ErrContentRequired):
			h.log.BusinessError("groups.edit_message: empty content", err, "message_id", messageID)
			writeError(w, http.StatusBadRequest, "invalid_content", "message content is required")
		default:
			h.log.InternalError("groups.edit_message: edit failed", err, "message_id", messageID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMessageResponse(message))
}

func (h *Handlers) writeGroupError(w http.ResponseWriter, op string, err error, groupID string) {
	switch {
	case errors.Is(err, giftgroupdomain.ErrGroupNotFound):
		h.log.BusinessError(op+": group not found", err, "group_id", groupID)
		writeError(w, http.StatusNotFound, "group_not_found", "gift group not found")
	case errors.Is(err, giftgroupdomain.ErrNotGroupMember):
		h.log.BusinessError(op+": not a group member", err, "group_id", groupID)
		writeError(w, http.StatusForbidden, "not_group_member", "not a member of this gift group")
	case errors.Is(err, giftgroupdomain.ErrNotCreator):
		h.log.BusinessError(op+": not the creator", err, "group_id", groupID)
		writeError(w, http.StatusForbidden, "not_creator", "only the group creator can do this")
	case errors.Is(err, giftgroupdomain.ErrGroupNameRequired):
		h.log.BusinessError(op+": name required", err, "group_id", groupID)
		writeError(w, http.StatusBadRequest, "invalid_name", "group name is required")
	case errors.Is(err, giftgroupdomain.ErrTargetAmountNegative):
		h.log.BusinessError(op+": negative target", err, "group_id", groupID)
		writeError(w, http.StatusBadRequest, "invalid_amount", "target amount cannot be negative")
	default:
		h.log.InternalError(op+": operation failed", err, "group_id", groupID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
