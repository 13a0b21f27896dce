package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/engine"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/identity"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/store"
)

// AdminHandler handles the administrative overlay: enriched listing, force
// release, status override, and allow-list management.
type AdminHandler struct {
	DB        *sql.DB
	Directory identity.Directory
}

type releaseRequest struct {
	LockerID int64 `json:"locker_id"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type whitelistRequest struct {
	Email string `json:"email"`
}

// Check handles GET /api/admin/check. Reaching it at all means the
// allow-list middleware passed.
func (h *AdminHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, map[string]any{
		"is_admin": true,
		"email":    claims.Email,
	})
}

// Lockers handles GET /api/admin/lockers: every locker with its active
// assignment, stored items, inconsistency flag, and the holder's display
// name. Name resolution is best-effort; a dead directory degrades to
// "unknown" instead of failing the listing.
func (h *AdminHandler) Lockers(w http.ResponseWriter, r *http.Request) {
	lockers, err := store.ListLockersAdmin(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list lockers")
		return
	}
	if lockers == nil {
		lockers = []model.Locker{}
	}

	var studentIDs []string
	seen := make(map[string]bool)
	for i := range lockers {
		if a := lockers[i].ActiveAssignment; a != nil && !seen[a.StudentID] {
			seen[a.StudentID] = true
			studentIDs = append(studentIDs, a.StudentID)
		}
	}

	names := map[string]string{}
	if h.Directory != nil && len(studentIDs) > 0 {
		names, err = h.Directory.Lookup(r.Context(), studentIDs)
		if err != nil {
			slog.Warn("identity directory lookup failed", "error", err)
			names = map[string]string{}
		}
	}

	for i := range lockers {
		if a := lockers[i].ActiveAssignment; a != nil {
			if name, ok := names[a.StudentID]; ok {
				a.StudentName = name
			} else {
				a.StudentName = identity.Unknown
			}
		}
	}

	jsonResponse(w, http.StatusOK, lockers)
}

// Release handles POST /api/admin/lockers/release (force release).
func (h *AdminHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := engine.ForceRelease(r.Context(), h.DB, req.LockerID); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "locker force released successfully"})
}

// SetStatus handles PUT /api/admin/lockers/{id}.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid locker id")
		return
	}

	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := engine.SetLockerStatus(r.Context(), h.DB, id, req.Status); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "locker status updated successfully"})
}

// Whitelist handles GET /api/admin/whitelist.
func (h *AdminHandler) Whitelist(w http.ResponseWriter, r *http.Request) {
	emails, err := store.ListAdminEmails(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list admin whitelist")
		return
	}
	if emails == nil {
		emails = []string{}
	}
	jsonResponse(w, http.StatusOK, emails)
}

// WhitelistAdd handles POST /api/admin/whitelist.
func (h *AdminHandler) WhitelistAdd(w http.ResponseWriter, r *http.Request) {
	var req whitelistRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}

	if err := store.AddAdminEmail(r.Context(), h.DB, req.Email); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to add admin email")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{"message": "admin email added"})
}

// WhitelistRemove handles DELETE /api/admin/whitelist/{email}.
func (h *AdminHandler) WhitelistRemove(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}

	if err := store.RemoveAdminEmail(r.Context(), h.DB, email); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to remove admin email")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "admin email removed"})
}
