package handler

import "net/http"

// API groups the REST handlers so route registration lives in one
// place and tests exercise the same mux the server runs.
type API struct {
	Users   *UserHandler
	Houses  *HouseHandler
	Tenants *TenantHandler
	Rentals *RentalHandler
	Login   *LoginHandler
}

// Register wires the API routes onto mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/login", a.Login)

	mux.HandleFunc("POST /api/users", a.Users.Create)
	mux.HandleFunc("GET /api/users", a.Users.List)
	mux.HandleFunc("GET /api/users/{id}", a.Users.Get)
	mux.HandleFunc("PUT /api/users/{id}", a.Users.Update)
	mux.HandleFunc("DELETE /api/users/{id}", a.Users.Delete)
	mux.HandleFunc("GET /api/users/{id}/rentals", a.Users.Rentals)

	mux.HandleFunc("POST /api/houses", a.Houses.Create)
	mux.HandleFunc("GET /api/houses", a.Houses.List)
	mux.HandleFunc("GET /api/houses/{id}", a.Houses.Get)
	mux.HandleFunc("GET /api/houses/{id}/tenants", a.Houses.Tenants)

	mux.HandleFunc("POST /api/tenants", a.Tenants.Create)
	mux.HandleFunc("GET /api/tenants", a.Tenants.List)
	mux.HandleFunc("GET /api/tenants/{id}", a.Tenants.Get)

	mux.HandleFunc("POST /api/rentals", a.Rentals.Create)
	mux.HandleFunc("GET /api/rentals", a.Rentals.List)
	mux.HandleFunc("GET /api/rentals/{id}", a.Rentals.Get)
	mux.HandleFunc("PUT /api/rentals/{id}", a.Rentals.Update)
	mux.HandleFunc("DELETE /api/rentals/{id}", a.Rentals.Delete)
}
