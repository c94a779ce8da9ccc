package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

const commentSelect = `
	SELECT c.id, c.plan_id, c.body, c.created_at, c.updated_at,
		u.id, u.email, u.username, u.first_name, u.last_name, u.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// CreateComment inserts a new comment on a plan. The author must be set.
func CreateComment(ctx context.Context, q Querier, comment *models.Comment) (*models.Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO comments(id, plan_id, user_id, body, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		comment.ID, comment.PlanID, comment.Author.ID, comment.Body,
		formatTimestamp(comment.CreatedAt), formatTimestamp(comment.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	// Read back with the author joined in.
	return GetCommentByID(ctx, q, comment.ID)
}

// GetCommentByID retrieves a comment and its author.
func GetCommentByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Comment, error) {
	row := q.QueryRowContext(ctx, commentSelect+" WHERE c.id = ?", id)
	return scanComment(row)
}

// GetCommentsForPlan retrieves all comments on a plan, including the author,
// ordered by creation time (oldest first).
func GetCommentsForPlan(ctx context.Context, q Querier, planID uuid.UUID) ([]*models.Comment, error) {
	rows, err := q.QueryContext(ctx, commentSelect+" WHERE c.plan_id = ? ORDER BY c.created_at ASC, c.id", planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment overwrites the body and update time of a comment.
func UpdateComment(ctx context.Context, q Querier, comment *models.Comment) error {
	res, err := q.ExecContext(ctx,
		"UPDATE comments SET body = ?, updated_at = ? WHERE id = ?",
		comment.Body, formatTimestamp(comment.UpdatedAt), comment.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func DeleteComment(ctx context.Context, q Querier, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	return err
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{Author: &models.User{}}
	var createdAt, updatedAt, authorCreatedAt string
	err := row.Scan(
		&c.ID, &c.PlanID, &c.Body, &createdAt, &updatedAt,
		&c.Author.ID, &c.Author.Email, &c.Author.Username, &c.Author.FirstName, &c.Author.LastName, &authorCreatedAt,
	)
	if err != nil {
		return nil, err // This will include sql.ErrNoRows if not found
	}
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	if c.Author.CreatedAt, err = parseTimestamp(authorCreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
