package cafes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"

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

// HomepageHandler shows the homepage.
func HomepageHandler(sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"message":  "Where Coffee Dreams Come True",
			"messages": sm.Flashes(w, r),
		})
	}
}

// ListHandler returns all cafes ordered by name.
func ListHandler(cafes *storage.CafeRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cafes.List(r.Context())
		if err != nil {
			log.Printf("Failed to list cafes: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"cafes":    list,
			"messages": sm.Flashes(w, r),
		})
	}
}

// DetailHandler shows one cafe, or 404 when the id does not exist.
func DetailHandler(cafes *storage.CafeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		cafe, err := cafes.Get(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			log.Printf("Failed to get cafe %d: %v", id, err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"cafe":       cafe,
			"city_state": cafe.GetCityState(),
		})
	}
}

// validateCafe runs the cafe rules plus the live city_code membership
// check the form's dynamic city dropdown implies.
func validateCafe(r *http.Request, cities *storage.CityRepository, values map[string]string) (forms.Errors, error) {
	errs := forms.Validate(values, forms.CafeRules)
	if values["city_code"] != "" {
		codes, err := cities.Codes(r.Context())
		if err != nil {
			return nil, err
		}
		if !slices.Contains(codes, values["city_code"]) {
			errs.Add("city_code", "Not a valid choice")
		}
	}
	return errs, nil
}

// AddHandler shows the add-cafe form (with current city choices) and
// inserts the cafe on a valid submission.
func AddHandler(cafes *storage.CafeRepository, cities *storage.CityRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			choices, err := cities.List(r.Context())
			if err != nil {
				log.Printf("Failed to list cities: %v", err)
				http.Error(w, "Database error", http.StatusInternalServerError)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"title":  "Add Cafe",
				"cities": choices,
			})
			return
		}

		values, err := decodeValues(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		errs, err := validateCafe(r, cities, values)
		if err != nil {
			log.Printf("Failed to list cities: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if len(errs) > 0 {
			respondErrors(w, http.StatusBadRequest, errs)
			return
		}

		cafe := &models.Cafe{
			Name:        values["name"],
			Description: values["description"],
			URL:         values["url"],
			Address:     values["address"],
			CityCode:    values["city_code"],
			ImageURL:    orDefault(values["image_url"], models.DefaultCafeImage),
		}
		if err := cafes.Create(r.Context(), cafe); err != nil {
			log.Printf("Failed to create cafe: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, cafe.Name+" added.")
		http.Redirect(w, r, "/cafes/"+strconv.Itoa(cafe.ID), http.StatusFound)
	}
}

// EditHandler shows the edit form for an existing cafe and applies a
// valid submission. Blank image_url means "use the default".
func EditHandler(cafes *storage.CafeRepository, cities *storage.CityRepository, sm *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		cafe, err := cafes.Get(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			log.Printf("Failed to get cafe %d: %v", id, err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		if r.Method == http.MethodGet {
			choices, err := cities.List(r.Context())
			if err != nil {
				log.Printf("Failed to list cities: %v", err)
				http.Error(w, "Database error", http.StatusInternalServerError)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"title":  "Edit " + cafe.Name,
				"cafe":   cafe,
				"cities": choices,
			})
			return
		}

		values, err := decodeValues(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		errs, err := validateCafe(r, cities, values)
		if err != nil {
			log.Printf("Failed to list cities: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if len(errs) > 0 {
			respondErrors(w, http.StatusBadRequest, errs)
			return
		}

		cafe.Name = values["name"]
		cafe.Description = values["description"]
		cafe.URL = values["url"]
		cafe.Address = values["address"]
		cafe.CityCode = values["city_code"]
		cafe.ImageURL = orDefault(values["image_url"], models.DefaultCafeImage)

		if err := cafes.Update(r.Context(), cafe); err != nil {
			log.Printf("Failed to update cafe %d: %v", id, err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		sm.Flash(w, r, cafe.Name+" edited.")
		http.Redirect(w, r, "/cafes/"+strconv.Itoa(cafe.ID), http.StatusFound)
	}
}
