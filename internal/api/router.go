package api

import (
	"database/sql"
	"net/http"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/identity"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, dir identity.Directory) http.Handler {
	mux := http.NewServeMux()

	lockersHandler := &LockersHandler{DB: db}
	adminHandler := &AdminHandler{DB: db, Directory: dir}

	authMW := AuthMiddleware(jwtSecret)
	adminMW := RequireAdmin(db)

	// Public: locker availability overview.
	mux.HandleFunc("GET /api/lockers/status", lockersHandler.Status)

	// Student routes (authenticated; subject id comes from the token).
	mux.Handle("POST /api/lockers/assign", authMW(http.HandlerFunc(lockersHandler.Assign)))
	mux.Handle("POST /api/lockers/return", authMW(http.HandlerFunc(lockersHandler.Return)))
	mux.Handle("GET /api/lockers/my-assignment", authMW(http.HandlerFunc(lockersHandler.MyAssignment)))
	mux.Handle("POST /api/lockers/items", authMW(http.HandlerFunc(lockersHandler.AttachItem)))
	mux.Handle("POST /api/lockers/items/batch", authMW(http.HandlerFunc(lockersHandler.AttachItems)))
	mux.Handle("PUT /api/lockers/items/{id}/photo", authMW(http.HandlerFunc(lockersHandler.UploadPhoto)))
	mux.Handle("GET /api/lockers/items/{id}/photo", authMW(http.HandlerFunc(lockersHandler.GetPhoto)))

	// Admin routes (authenticated + allow-listed email).
	mux.Handle("GET /api/admin/check", authMW(adminMW(http.HandlerFunc(adminHandler.Check))))
	mux.Handle("GET /api/admin/lockers", authMW(adminMW(http.HandlerFunc(adminHandler.Lockers))))
	mux.Handle("POST /api/admin/lockers/release", authMW(adminMW(http.HandlerFunc(adminHandler.Release))))
	mux.Handle("PUT /api/admin/lockers/{id}", authMW(adminMW(http.HandlerFunc(adminHandler.SetStatus))))
	mux.Handle("GET /api/admin/whitelist", authMW(adminMW(http.HandlerFunc(adminHandler.Whitelist))))
	mux.Handle("POST /api/admin/whitelist", authMW(adminMW(http.HandlerFunc(adminHandler.WhitelistAdd))))
	mux.Handle("DELETE /api/admin/whitelist/{email}", authMW(adminMW(http.HandlerFunc(adminHandler.WhitelistRemove))))

	return mux
}
