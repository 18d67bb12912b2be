package storage

import (
	"context"
	"database/sql"
	"errors"

	"cafehub/internals/models"
)

type CityRepository struct {
	db *sql.DB
}

func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cities (code, name, state) VALUES (?, ?, ?)",
		city.Code, city.Name, city.State)
	return err
}

func (r *CityRepository) Get(ctx context.Context, code string) (*models.City, error) {
	var city models.City
	err := r.db.QueryRowContext(ctx,
		"SELECT code, name, state FROM cities WHERE code = ?", code).
		Scan(&city.Code, &city.Name, &city.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *CityRepository) List(ctx context.Context) ([]models.City, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT code, name, state FROM cities ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.Code, &city.Name, &city.State); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// Codes returns the currently known city codes, used to validate the
// city_code choice on cafe forms.
func (r *CityRepository) Codes(ctx context.Context) ([]string, error) {
	cities, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(cities))
	for _, city := range cities {
		codes = append(codes, city.Code)
	}
	return codes, nil
}
