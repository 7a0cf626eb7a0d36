package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lostfound/apiserver/internal/services"
	"github.com/lostfound/apiserver/internal/store"
	"github.com/lostfound/apiserver/types"
)

// AdminHandler provides the moderation console endpoints: user listing
// and deletion, report deletion, and the manual match workflow.
type AdminHandler struct {
	userService   *services.UserService
	reportService *services.ReportService
	matchService  *services.MatchService
}

// NewAdminHandler constructs a handler with the provided services.
func NewAdminHandler(userService *services.UserService, reportService *services.ReportService, matchService *services.MatchService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		reportService: reportService,
		matchService:  matchService,
	}
}

// AdminRouter registers admin routes on the given router. Every route
// requires an authenticated admin.
func AdminRouter(
	r chi.Router,
	userService *services.UserService,
	reportService *services.ReportService,
	matchService *services.MatchService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAdminHandler(userService, reportService, matchService)

	r.Use(authMiddleware, handler.requireAdmin)
	r.Get("/users", handler.ListUsers)
	r.Delete("/users/{userID}", handler.DeleteUser)
	r.Delete("/reports/{reportID}", handler.DeleteReport)
	r.Post("/match-items", handler.MatchItems)
}

// ListUsers returns all accounts with credentials stripped.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	safe := make([]types.SafeUser, 0, len(users))
	for _, user := range users {
		safe = append(safe, user.Safe())
	}
	writeJSON(w, http.StatusOK, safe)
}

// DeleteUser removes an account and cascades over its reports and
// notifications.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// DeleteReport removes any report, regardless of owner.
func (h *AdminHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Delete(r.Context(), chi.URLParam(r, "reportID")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MatchItemsRequest is the manual match payload.
type MatchItemsRequest struct {
	LostItemID  string `json:"lostItemId"`
	FoundItemID string `json:"foundItemId"`
}

// MatchItems pairs a lost report with a found report and notifies both
// owners.
func (h *AdminHandler) MatchItems(w http.ResponseWriter, r *http.Request) {
	var req MatchItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.matchService.MatchPair(r.Context(), req.LostItemID, req.FoundItemID)
	if err != nil {
		if errors.Is(err, services.ErrMissingIDs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to match items")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "items matched successfully"})
}

func (h *AdminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.userService.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		if !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
