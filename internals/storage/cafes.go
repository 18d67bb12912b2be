package storage

import (
	"context"
	"database/sql"
	"errors"

	"cafehub/internals/models"
)

type CafeRepository struct {
	db *sql.DB
}

func NewCafeRepository(db *sql.DB) *CafeRepository {
	return &CafeRepository{db: db}
}

const cafeSelect = `
SELECT c.id, c.name, c.description, c.url, c.address, c.city_code, c.image_url,
       ci.name, ci.state
FROM cafes c
JOIN cities ci ON ci.code = c.city_code`

func scanCafe(row interface{ Scan(...any) error }) (*models.Cafe, error) {
	var cafe models.Cafe
	err := row.Scan(
		&cafe.ID, &cafe.Name, &cafe.Description, &cafe.URL, &cafe.Address,
		&cafe.CityCode, &cafe.ImageURL, &cafe.CityName, &cafe.CityState)
	if err != nil {
		return nil, err
	}
	return &cafe, nil
}

// Create inserts the cafe and fills in its assigned id.
func (r *CafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cafes (name, description, url, address, city_code, image_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cafe.Name, cafe.Description, cafe.URL, cafe.Address, cafe.CityCode, cafe.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cafe.ID = int(id)
	return nil
}

func (r *CafeRepository) Get(ctx context.Context, id int) (*models.Cafe, error) {
	cafe, err := scanCafe(r.db.QueryRowContext(ctx, cafeSelect+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return cafe, nil
}

// List returns all cafes ordered by name, with city info joined in.
func (r *CafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	rows, err := r.db.QueryContext(ctx, cafeSelect+" ORDER BY c.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cafes []models.Cafe
	for rows.Next() {
		cafe, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		cafes = append(cafes, *cafe)
	}
	return cafes, rows.Err()
}

func (r *CafeRepository) Update(ctx context.Context, cafe *models.Cafe) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cafes
		SET name = ?, description = ?, url = ?, address = ?, city_code = ?, image_url = ?
		WHERE id = ?`,
		cafe.Name, cafe.Description, cafe.URL, cafe.Address, cafe.CityCode,
		cafe.ImageURL, cafe.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
