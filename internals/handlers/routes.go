// Package handlers wires every endpoint to its repositories and the
// session manager.
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"cafehub/internals/auth"
	"cafehub/internals/handlers/cafes"
	"cafehub/internals/handlers/users"
	"cafehub/internals/storage"
)

func NewRouter(db *sql.DB, sm *auth.Manager) *mux.Router {
	userRepo := storage.NewUserRepository(db)
	cafeRepo := storage.NewCafeRepository(db)
	cityRepo := storage.NewCityRepository(db)

	r := mux.NewRouter()
	r.Use(sm.Middleware)

	r.HandleFunc("/", cafes.HomepageHandler(sm)).Methods(http.MethodGet)

	r.HandleFunc("/signup", users.SignupHandler(userRepo, sm)).
		Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", users.LoginHandler(userRepo, sm)).
		Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", users.LogoutHandler(sm)).Methods(http.MethodPost)

	r.HandleFunc("/cafes", cafes.ListHandler(cafeRepo, sm)).Methods(http.MethodGet)
	r.HandleFunc("/cafes/add", cafes.AddHandler(cafeRepo, cityRepo, sm)).
		Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/cafes/{id:[0-9]+}", cafes.DetailHandler(cafeRepo)).
		Methods(http.MethodGet)
	r.HandleFunc("/cafes/{id:[0-9]+}/edit", cafes.EditHandler(cafeRepo, cityRepo, sm)).
		Methods(http.MethodGet, http.MethodPost)

	r.Handle("/profile", sm.RequireLogin(users.ProfileHandler(sm))).
		Methods(http.MethodGet)
	r.Handle("/profile/edit", sm.RequireLogin(users.ProfileEditHandler(userRepo, sm))).
		Methods(http.MethodGet, http.MethodPost)

	return r
}
