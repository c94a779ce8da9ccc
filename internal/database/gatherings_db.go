package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// GetGatheringByID retrieves a gathering with its participants.
func GetGatheringByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Gathering, error) {
	row := q.QueryRowContext(ctx,
		"SELECT id, plan_id, gathering_date, start_time FROM gatherings WHERE id = ?", id)
	g, err := scanGathering(row)
	if err != nil {
		return nil, err // This will include sql.ErrNoRows if not found
	}

	if g.Participants, err = GetParticipants(ctx, q, id); err != nil {
		return nil, err
	}
	return g, nil
}

// GetParticipants retrieves the users taking part in a gathering, ordered by username.
func GetParticipants(ctx context.Context, q Querier, gatheringID uuid.UUID) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT gp.gathering_id, u.id, u.email, u.username, u.first_name, u.last_name, u.created_at
		FROM gathering_participants gp
		JOIN users u ON u.id = gp.user_id
		WHERE gp.gathering_id = ?
		ORDER BY u.username, u.id`, gatheringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var gid uuid.UUID
		u, err := scanParticipant(rows, &gid)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// AddParticipant puts userID on the roster of a gathering if its plan's
// player limit still allows it. The capacity check and the insert are one
// statement, so concurrent joins cannot overfill a gathering. It reports
// whether a row was inserted; joining twice inserts nothing.
func AddParticipant(ctx context.Context, q Querier, gatheringID, userID uuid.UUID) (bool, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO gathering_participants (gathering_id, user_id)
		SELECT ga.id, CAST(? AS TEXT) FROM gatherings ga
		JOIN plans p ON p.id = ga.plan_id
		WHERE ga.id = ?
			AND (p.player_limit = 0 OR
				(SELECT COUNT(*) FROM gathering_participants c WHERE c.gathering_id = ga.id) < p.player_limit)
		ON CONFLICT (gathering_id, user_id) DO NOTHING`,
		userID, gatheringID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveParticipant takes userID off the roster of a gathering.
func RemoveParticipant(ctx context.Context, q Querier, gatheringID, userID uuid.UUID) error {
	_, err := q.ExecContext(ctx,
		"DELETE FROM gathering_participants WHERE gathering_id = ? AND user_id = ?", gatheringID, userID)
	return err
}

func scanGathering(row rowScanner) (*models.Gathering, error) {
	g := &models.Gathering{}
	var date string
	if err := row.Scan(&g.ID, &g.PlanID, &date, &g.StartTime); err != nil {
		return nil, err
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}
	g.Date = d
	return g, nil
}

func scanParticipant(row rowScanner, gatheringID *uuid.UUID) (*models.User, error) {
	u := &models.User{}
	var createdAt string
	if err := row.Scan(gatheringID, &u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return u, nil
}
