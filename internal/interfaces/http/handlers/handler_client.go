package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	httperrors "github.com/castellan/site-auth/internal/interfaces/http/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ClientRequest represents the request to create or update an OAuth2 client
type ClientRequest struct {
	ID               string   `json:"id"`
	Secret           string   `json:"secret"`
	RedirectURIs     []string `json:"redirect_uris"`
	GrantTypes       []string `json:"grant_types"`
	HomepageURL      string   `json:"homepage_url"`
	PrivacyPolicyURL string   `json:"privacy_policy_url"`
}

// ClientHandler handles OAuth2 client management
type ClientHandler struct {
	oauthRepo domain.OAuth2Repository
	logger    *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(oauthRepo domain.OAuth2Repository, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		oauthRepo: oauthRepo,
		logger:    logger,
	}
}

// CreateClientHandler handles POST /api/clients
func (h *ClientHandler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Secret == "" || len(req.RedirectURIs) == 0 || len(req.GrantTypes) == 0 {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "id, secret, redirect_uris and grant_types are required", http.StatusBadRequest)
		return
	}

	if existing, err := h.oauthRepo.FindClientByID(r.Context(), req.ID); err == nil && existing != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeConflict, "Client already exists", http.StatusConflict)
		return
	}

	now := time.Now()
	client := &domain.OAuth2Client{
		ID:               req.ID,
		Secret:           req.Secret,
		RedirectURIs:     req.RedirectURIs,
		GrantTypes:       req.GrantTypes,
		HomepageURL:      req.HomepageURL,
		PrivacyPolicyURL: req.PrivacyPolicyURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.oauthRepo.CreateClient(r.Context(), client); err != nil {
		h.logger.Error("Failed to create OAuth2 client", zap.String("client_id", req.ID), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to create OAuth2 client", http.StatusInternalServerError)
		return
	}

	h.logger.Info("OAuth2 client created", zap.String("client_id", client.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}

// GetClientHandler handles GET /api/clients/{id}
func (h *ClientHandler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	client, err := h.oauthRepo.FindClientByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidClient) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
			return
		}
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to find client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// ListClientsHandler handles GET /api/clients
func (h *ClientHandler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := h.oauthRepo.ListClients(r.Context())
	if err != nil {
		h.logger.Error("Failed to list OAuth2 clients", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to list OAuth2 clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// UpdateClientHandler handles PUT /api/clients/{id}
func (h *ClientHandler) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}

	existing, err := h.oauthRepo.FindClientByID(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidClient) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
			return
		}
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to find client", http.StatusInternalServerError)
		return
	}

	if req.Secret != "" {
		existing.Secret = req.Secret
	}
	if len(req.RedirectURIs) > 0 {
		existing.RedirectURIs = req.RedirectURIs
	}
	if len(req.GrantTypes) > 0 {
		existing.GrantTypes = req.GrantTypes
	}
	existing.HomepageURL = req.HomepageURL
	existing.PrivacyPolicyURL = req.PrivacyPolicyURL
	existing.UpdatedAt = time.Now()

	if err := h.oauthRepo.UpdateClient(r.Context(), existing); err != nil {
		h.logger.Error("Failed to update OAuth2 client", zap.String("client_id", clientID), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to update OAuth2 client", http.StatusInternalServerError)
		return
	}

	h.logger.Info("OAuth2 client updated", zap.String("client_id", clientID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// DeleteClientHandler handles DELETE /api/clients/{id}
func (h *ClientHandler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	if _, err := h.oauthRepo.FindClientByID(r.Context(), clientID); err != nil {
		if errors.Is(err, domain.ErrInvalidClient) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
			return
		}
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to find client", http.StatusInternalServerError)
		return
	}

	if err := h.oauthRepo.DeleteClient(r.Context(), clientID); err != nil {
		h.logger.Error("Failed to delete OAuth2 client", zap.String("client_id", clientID), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to delete OAuth2 client", http.StatusInternalServerError)
		return
	}

	h.logger.Info("OAuth2 client deleted", zap.String("client_id", clientID))

	w.WriteHeader(http.StatusNoContent)
}
