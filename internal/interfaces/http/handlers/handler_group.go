package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castellan/site-auth/internal/application"
	"github.com/castellan/site-auth/internal/domain"
	httperrors "github.com/castellan/site-auth/internal/interfaces/http/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GroupHandler exposes the group management endpoints
type GroupHandler struct {
	groupService *application.GroupService
	logger       *zap.Logger
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *application.GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		logger:       logger,
	}
}

// GroupRequest is the body of a group create or update call
type GroupRequest struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// CreateGroupHandler handles POST /api/groups
func (h *GroupHandler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Key == "" {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Name and key are required", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), req.Name, req.Key, req.Description, req.Permissions)
	if err != nil {
		if errors.Is(err, domain.ErrGroupAlreadyExists) {
			httperrors.RespondWithError(w, httperrors.ErrCodeConflict, "Group key is already in use", http.StatusConflict)
			return
		}
		h.logger.Error("Failed to create group", zap.String("key", req.Key), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to create group", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(group)
}

// GetGroupHandler handles GET /api/groups/{key}
func (h *GroupHandler) GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.GetGroup(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Group not found", http.StatusNotFound)
			return
		}
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to get group", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(group)
}

// ListGroupsHandler handles GET /api/groups
func (h *GroupHandler) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListGroups(r.Context())
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to list groups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

// UpdateGroupHandler handles PUT /api/groups/{key}
func (h *GroupHandler) UpdateGroupHandler(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.UpdateGroup(r.Context(), chi.URLParam(r, "key"), req.Name, req.Description, req.Permissions)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Group not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to update group", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to update group", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(group)
}

// DeleteGroupHandler handles DELETE /api/groups/{key}
func (h *GroupHandler) DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.groupService.DeleteGroup(r.Context(), chi.URLParam(r, "key")); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Group not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to delete group", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to delete group", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPermissionsHandler handles GET /api/permissions
func (h *GroupHandler) ListPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.PermissionDetails)
}
