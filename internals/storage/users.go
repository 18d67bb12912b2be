package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"cafehub/internals/auth"
	"cafehub/internals/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and fills in its assigned id. A username
// collision surfaces as ErrDuplicateUsername; the unique index
// serializes concurrent signups so there is no separate existence check.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, admin, email, first_name, last_name, description, image_url, hashed_password)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Admin, user.Email, user.FirstName, user.LastName,
		user.Description, user.ImageURL, user.HashedPassword)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateUsername
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}

const userSelect = `
SELECT id, username, admin, email, first_name, last_name, description, image_url, hashed_password
FROM users`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var email, description sql.NullString
	err := row.Scan(
		&user.ID, &user.Username, &user.Admin, &email, &user.FirstName,
		&user.LastName, &description, &user.ImageURL, &user.HashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	user.Email = email.String
	user.Description = description.String
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE id = ?", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE username = ?", username))
}

// Update persists the user's mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, first_name = ?, last_name = ?, description = ?, image_url = ?
		WHERE id = ?`,
		user.Email, user.FirstName, user.LastName, user.Description,
		user.ImageURL, user.ID)
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

// Authenticate returns the user when the username exists and the
// password matches its stored digest. Unknown usernames, wrong
// passwords and malformed digests all come back as (nil, false);
// credentials are never an error.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, bool) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, false
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return nil, false
	}
	return user, true
}
