package storage

import (
	"context"
	"database/sql"
)

// LikeRepository covers the user<->cafe join table. The feature has no
// HTTP surface yet; only the persistence layer exists.
type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Add records the like. Re-liking an already-liked cafe is a no-op; the
// composite primary key keeps the pair unique.
func (r *LikeRepository) Add(ctx context.Context, userID, cafeID int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO likes (user_id, cafe_id) VALUES (?, ?)",
		userID, cafeID)
	return err
}

func (r *LikeRepository) Remove(ctx context.Context, userID, cafeID int) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM likes WHERE user_id = ? AND cafe_id = ?",
		userID, cafeID)
	return err
}

func (r *LikeRepository) Exists(ctx context.Context, userID, cafeID int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE user_id = ? AND cafe_id = ?",
		userID, cafeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCafeIDs returns the ids of all cafes the user has liked.
func (r *LikeRepository) ListCafeIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT cafe_id FROM likes WHERE user_id = ? ORDER BY cafe_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
