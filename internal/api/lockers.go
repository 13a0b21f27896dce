package api

import (
	"database/sql"
	"errors"
	"io"
	"net/http"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/engine"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/imaging"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/store"
)

// LockersHandler handles the student-facing locker endpoints. The student id
// always comes from the verified token, never from the request body.
type LockersHandler struct {
	DB *sql.DB
}

type assignRequest struct {
	Items []model.NewStoredItem `json:"items"`
}

type returnRequest struct {
	LockerNumber int `json:"locker_number"`
}

type attachItemsRequest struct {
	Items []model.NewStoredItem `json:"items"`
}

// Status handles GET /api/lockers/status (public).
func (h *LockersHandler) Status(w http.ResponseWriter, r *http.Request) {
	lockers, err := store.ListLockers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list lockers")
		return
	}
	if lockers == nil {
		lockers = []model.Locker{}
	}
	jsonResponse(w, http.StatusOK, lockers)
}

// Assign handles POST /api/lockers/assign. Initial items are optional, so an
// empty body is a valid request.
func (h *LockersHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	allocation, err := engine.Allocate(r.Context(), h.DB, claims.StudentID(), req.Items)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message":       "locker assigned successfully",
		"locker_number": allocation.LockerNumber,
		"password":      allocation.Password,
		"assignment_id": allocation.AssignmentID,
	})
}

// Return handles POST /api/lockers/return.
func (h *LockersHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := engine.Return(r.Context(), h.DB, claims.StudentID(), req.LockerNumber); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "locker returned successfully"})
}

// MyAssignment handles GET /api/lockers/my-assignment. A student with no
// active assignment gets a JSON null, not an error.
func (h *LockersHandler) MyAssignment(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	assignment, err := engine.CurrentAssignment(r.Context(), h.DB, claims.StudentID())
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, assignment)
}

// AttachItem handles POST /api/lockers/items.
func (h *LockersHandler) AttachItem(w http.ResponseWriter, r *http.Request) {
	var req model.NewStoredItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := engine.AttachItem(r.Context(), h.DB, claims.StudentID(), req)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "item added successfully",
		"item":    item,
	})
}

// AttachItems handles POST /api/lockers/items/batch.
func (h *LockersHandler) AttachItems(w http.ResponseWriter, r *http.Request) {
	var req attachItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	items, err := engine.AttachItems(r.Context(), h.DB, claims.StudentID(), req.Items)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "items added successfully",
		"items":   items,
	})
}

// UploadPhoto handles PUT /api/lockers/items/{id}/photo. The item must
// belong to the caller's active assignment.
func (h *LockersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	claims := GetClaims(r.Context())

	item, err := store.GetStoredItemForStudent(r.Context(), h.DB, itemID, claims.StudentID())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "stored item not found")
		return
	}

	defer r.Body.Close()
	photo, mime, err := imaging.Normalize(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetStoredItemPhoto(r.Context(), h.DB, itemID, photo, mime); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo stored"})
}

// GetPhoto handles GET /api/lockers/items/{id}/photo.
func (h *LockersHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	claims := GetClaims(r.Context())

	item, err := store.GetStoredItemForStudent(r.Context(), h.DB, itemID, claims.StudentID())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "stored item not found")
		return
	}

	photo, mime, err := store.GetStoredItemPhoto(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(photo) == 0 {
		jsonError(w, http.StatusNotFound, "no photo for item")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(photo)
}
