package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cafehub/internals/auth"
	"cafehub/internals/forms"
	"cafehub/internals/models"
	"cafehub/internals/storage"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondErrors(w http.ResponseWriter, status int, errs forms.Errors) {
	respondJSON(w, status, map[string]any{"errors": errs})
}

func decodeValues(r *http.Request) (map[string]string, error) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// SignupHandler shows the signup form and processes registration. On
// success the new user is logged in and sent to the cafe list.
func SignupHandler(users *storage.UserRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			respondJSON(w, http.StatusOK, map[string]any{"title": "Sign Up"})
			return
		}

		values, err := decodeValues(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		errs := forms.Validate(values, forms.SignupRules)
		if len(errs) > 0 {
			respondErrors(w, http.StatusBadRequest, errs)
			return
		}

		hashed, err := auth.HashPassword(values["password"])
		if err != nil {
			http.Error(w, "Error hashing password", http.StatusInternalServerError)
			return
		}
		user := &models.User{
			Username:       values["username"],
			Email:          values["email"],
			FirstName:      values["first_name"],
			LastName:       values["last_name"],
			Description:    values["description"],
			ImageURL:       orDefault(values["image_url"], models.DefaultUserImage),
			HashedPassword: hashed,
		}
		err = users.Create(r.Context(), user)
		if errors.Is(err, storage.ErrDuplicateUsername) {
			errs.Add("username", "Username already taken")
			respondErrors(w, http.StatusBadRequest, errs)
			return
		} else if err != nil {
			log.Printf("Failed to create user: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		if err := sm.Login(w, r, user); err != nil {
			log.Printf("Failed to start session: %v", err)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, "You are signed up and logged in.")
		http.Redirect(w, r, "/cafes", http.StatusFound)
	}
}

// LoginHandler shows the login form and processes credentials. The
// failure message stays generic on purpose; it never says whether the
// username or the password was wrong.
func LoginHandler(users *storage.UserRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			respondJSON(w, http.StatusOK, map[string]any{"title": "Welcome Back!"})
			return
		}

		values, err := decodeValues(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		errs := forms.Validate(values, forms.LoginRules)
		if len(errs) > 0 {
			respondErrors(w, http.StatusBadRequest, errs)
			return
		}

		user, ok := users.Authenticate(r.Context(), values["username"], values["password"])
		if !ok {
			errs.Add("username", "Invalid credentials.")
			respondErrors(w, http.StatusUnauthorized, errs)
			return
		}

		if err := sm.Login(w, r, user); err != nil {
			log.Printf("Failed to start session: %v", err)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, "Hello, "+user.Username+"!")
		http.Redirect(w, r, "/cafes", http.StatusFound)
	}
}

// LogoutHandler clears the session and returns to the homepage.
func LogoutHandler(sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sm.Logout(w, r); err != nil {
			log.Printf("Failed to clear session: %v", err)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, "You have successfully logged out.")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// ProfileHandler shows the current user's profile. Routing wraps it in
// RequireLogin, so the user is always present here.
func ProfileHandler(sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := auth.CurrentUser(r)
		respondJSON(w, http.StatusOK, map[string]any{
			"user":      user,
			"full_name": user.FullName(),
			"messages":  sm.Flashes(w, r),
		})
	}
}

// ProfileEditHandler shows and processes the profile edit form for the
// current user. A blank image_url falls back to the default picture.
func ProfileEditHandler(users *storage.UserRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := auth.CurrentUser(r)

		if r.Method == http.MethodGet {
			respondJSON(w, http.StatusOK, map[string]any{
				"title": "Edit Profile",
				"user":  user,
			})
			return
		}

		values, err := decodeValues(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		errs := forms.Validate(values, forms.ProfileEditRules)
		if len(errs) > 0 {
			respondErrors(w, http.StatusBadRequest, errs)
			return
		}

		user.Email = values["email"]
		user.FirstName = values["first_name"]
		user.LastName = values["last_name"]
		user.Description = values["description"]
		user.ImageURL = orDefault(values["image_url"], models.DefaultUserImage)

		if err := users.Update(r.Context(), user); err != nil {
			log.Printf("Failed to update user %d: %v", user.ID, err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, "Profile edited.")
		http.Redirect(w, r, "/profile", http.StatusFound)
	}
}
