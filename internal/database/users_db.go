package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

const userColumns = "id, email, username, first_name, last_name, password_hash, created_at"

// Fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CreateUser inserts a new user. The password must already be hashed.
func CreateUser(ctx context.Context, q Querier, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO users("+userColumns+") VALUES(?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Username, user.FirstName, user.LastName, user.PasswordHash,
		formatTimestamp(user.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	// Read back so the caller sees exactly what was stored.
	return GetUserByID(ctx, q, user.ID)
}

// GetUserByEmail retrieves a user by their email address.
func GetUserByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	row := q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUserByID retrieves a user by their ID.
func GetUserByID(ctx context.Context, q Querier, id uuid.UUID) (*models.User, error) {
	row := q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetAllUsers returns every user ordered by username, then email.
func GetAllUsers(ctx context.Context, q Querier) ([]*models.User, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username ASC, email ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser overwrites the profile fields of a user. Email and password are not touched.
func UpdateUser(ctx context.Context, q Querier, user *models.User) error {
	_, err := q.ExecContext(ctx,
		"UPDATE users SET username = ?, first_name = ?, last_name = ? WHERE id = ?",
		user.Username, user.FirstName, user.LastName, user.ID,
	)
	return err
}

func UpdatePasswordHash(ctx context.Context, q Querier, id uuid.UUID, hash string) error {
	_, err := q.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}

// DeleteUser removes a user together with their plans, participations,
// comments and game collection.
func DeleteUser(ctx context.Context, db *DB, id uuid.UUID) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if err := deletePlansWhere(ctx, tx, "owner_id = ?", id); err != nil {
			return err
		}
		for _, stmt := range []string{
			"DELETE FROM gathering_participants WHERE user_id = ?",
			"DELETE FROM comments WHERE user_id = ?",
			"DELETE FROM user_games WHERE user_id = ?",
			"DELETE FROM users WHERE id = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var createdAt string
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName, &user.PasswordHash, &createdAt)
	if err != nil {
		return nil, err // This will include sql.ErrNoRows if not found
	}
	if user.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return user, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
