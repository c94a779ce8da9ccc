package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// Owners and games are LEFT JOINed so a plan with a dangling owner still
// loads, with a nil Owner, instead of silently disappearing.
const planSelect = `
	SELECT p.id, p.name, p.description, p.is_private, p.player_limit,
		u.id, u.email, u.username, u.first_name, u.last_name, u.created_at,
		g.id, g.name, g.description, g.image_url, g.min_player, g.max_player
	FROM plans p
	LEFT JOIN users u ON u.id = p.owner_id
	LEFT JOIN games g ON g.id = p.game_id`

// GetAllPlans retrieves every plan with owner, game, gatherings and rosters.
func GetAllPlans(ctx context.Context, q Querier) ([]*models.Plan, error) {
	return getPlansWhere(ctx, q, "1 = 1")
}

// GetPublicPlans retrieves all plans that are not private.
func GetPublicPlans(ctx context.Context, q Querier) ([]*models.Plan, error) {
	return getPlansWhere(ctx, q, "p.is_private = ?", false)
}

// GetPlansByOwner retrieves the plans created by ownerID.
func GetPlansByOwner(ctx context.Context, q Querier, ownerID uuid.UUID) ([]*models.Plan, error) {
	return getPlansWhere(ctx, q, "p.owner_id = ?", ownerID)
}

// GetPlansByParticipant retrieves the plans having at least one gathering
// userID takes part in. All gatherings of those plans are loaded.
func GetPlansByParticipant(ctx context.Context, q Querier, userID uuid.UUID) ([]*models.Plan, error) {
	return getPlansWhere(ctx, q, `p.id IN (
		SELECT ga.plan_id FROM gatherings ga
		JOIN gathering_participants gp ON gp.gathering_id = ga.id
		WHERE gp.user_id = ?)`, userID)
}

// GetPlanByID retrieves a plan by its ID.
func GetPlanByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Plan, error) {
	plans, err := getPlansWhere(ctx, q, "p.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, sql.ErrNoRows
	}
	return plans[0], nil
}

// CreatePlan inserts a plan together with its gatherings and their rosters
// in one transaction.
func CreatePlan(ctx context.Context, db *DB, plan *models.Plan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	return db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO plans (id, name, description, is_private, player_limit, owner_id, game_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			plan.ID, plan.Name, plan.Description, plan.IsPrivate, plan.PlayerLimit, ownerIDArg(plan), gameIDArg(plan),
		)
		if err != nil {
			return err
		}
		return insertGatherings(ctx, tx, plan.ID, plan.Gatherings)
	})
}

// UpdatePlan overwrites the scalar fields and game reference of a plan.
func UpdatePlan(ctx context.Context, q Querier, plan *models.Plan) error {
	res, err := q.ExecContext(ctx, `
		UPDATE plans SET name = ?, description = ?, is_private = ?, player_limit = ?, game_id = ?
		WHERE id = ?`,
		plan.Name, plan.Description, plan.IsPrivate, plan.PlayerLimit, gameIDArg(plan), plan.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ReplaceGatherings deletes every gathering of a plan and inserts the given
// ones in their place.
func ReplaceGatherings(ctx context.Context, db *DB, planID uuid.UUID, gatherings []models.Gathering) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM gathering_participants
			WHERE gathering_id IN (SELECT id FROM gatherings WHERE plan_id = ?)`, planID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM gatherings WHERE plan_id = ?", planID); err != nil {
			return err
		}
		return insertGatherings(ctx, tx, planID, gatherings)
	})
}

// DeletePlan removes a plan with its gatherings, participations and comments.
func DeletePlan(ctx context.Context, db *DB, id uuid.UUID) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return deletePlansWhere(ctx, tx, "id = ?", id)
	})
}

// deletePlansWhere deletes dependants explicitly so the cascade does not
// depend on foreign key enforcement being enabled.
func deletePlansWhere(ctx context.Context, q Querier, where string, args ...any) error {
	planIDs := "SELECT id FROM plans WHERE " + where
	for _, stmt := range []string{
		"DELETE FROM gathering_participants WHERE gathering_id IN (SELECT id FROM gatherings WHERE plan_id IN (" + planIDs + "))",
		"DELETE FROM gatherings WHERE plan_id IN (" + planIDs + ")",
		"DELETE FROM comments WHERE plan_id IN (" + planIDs + ")",
		"DELETE FROM plans WHERE " + where,
	} {
		if _, err := q.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

func insertGatherings(ctx context.Context, q Querier, planID uuid.UUID, gatherings []models.Gathering) error {
	for i := range gatherings {
		g := &gatherings[i]
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		g.PlanID = planID
		_, err := q.ExecContext(ctx,
			"INSERT INTO gatherings (id, plan_id, gathering_date, start_time) VALUES (?, ?, ?, ?)",
			g.ID, planID, g.Date.Format(models.DateLayout), g.StartTime,
		)
		if err != nil {
			return err
		}
		for _, u := range g.Participants {
			_, err := q.ExecContext(ctx,
				"INSERT INTO gathering_participants (gathering_id, user_id) VALUES (?, ?)", g.ID, u.ID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// getPlansWhere loads the plans matching where (over alias p) and hydrates
// them with three queries regardless of the number of plans.
func getPlansWhere(ctx context.Context, q Querier, where string, args ...any) ([]*models.Plan, error) {
	plans, err := queryPlans(ctx, q, planSelect+" WHERE "+where+" ORDER BY p.name, p.id", args...)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return plans, nil
	}

	byID := make(map[uuid.UUID]*models.Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	if err := loadGatherings(ctx, q, byID, where, args...); err != nil {
		return nil, err
	}

	gatherings := make(map[uuid.UUID]*models.Gathering)
	for _, p := range plans {
		for i := range p.Gatherings {
			gatherings[p.Gatherings[i].ID] = &p.Gatherings[i]
		}
	}
	if err := loadParticipants(ctx, q, gatherings, where, args...); err != nil {
		return nil, err
	}
	return plans, nil
}

func queryPlans(ctx context.Context, q Querier, query string, args ...any) ([]*models.Plan, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []*models.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	var (
		plan                                    models.Plan
		ownerID, gameID                         uuid.NullUUID
		email, username, firstName, lastName    sql.NullString
		createdAt                               sql.NullString
		gameName, gameDescription, gameImageURL sql.NullString
		minPlayer, maxPlayer                    sql.NullInt64
	)
	err := row.Scan(
		&plan.ID, &plan.Name, &plan.Description, &plan.IsPrivate, &plan.PlayerLimit,
		&ownerID, &email, &username, &firstName, &lastName, &createdAt,
		&gameID, &gameName, &gameDescription, &gameImageURL, &minPlayer, &maxPlayer,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		plan.Owner = &models.User{
			ID:        ownerID.UUID,
			Email:     email.String,
			Username:  username.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
		if createdAt.Valid {
			if plan.Owner.CreatedAt, err = parseTimestamp(createdAt.String); err != nil {
				return nil, err
			}
		}
	}
	if gameID.Valid {
		plan.Game = &models.Game{
			ID:          gameID.UUID,
			Name:        gameName.String,
			Description: gameDescription.String,
			ImageURL:    gameImageURL.String,
			MinPlayer:   int(minPlayer.Int64),
			MaxPlayer:   int(maxPlayer.Int64),
		}
	}
	return &plan, nil
}

func loadGatherings(ctx context.Context, q Querier, plans map[uuid.UUID]*models.Plan, where string, args ...any) error {
	rows, err := q.QueryContext(ctx, `
		SELECT ga.id, ga.plan_id, ga.gathering_date, ga.start_time
		FROM gatherings ga
		JOIN plans p ON p.id = ga.plan_id
		WHERE `+where+`
		ORDER BY ga.gathering_date, ga.start_time, ga.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGathering(rows)
		if err != nil {
			return err
		}
		if plan, ok := plans[g.PlanID]; ok {
			plan.Gatherings = append(plan.Gatherings, *g)
		}
	}
	return rows.Err()
}

func loadParticipants(ctx context.Context, q Querier, gatherings map[uuid.UUID]*models.Gathering, where string, args ...any) error {
	if len(gatherings) == 0 {
		return nil
	}
	rows, err := q.QueryContext(ctx, `
		SELECT gp.gathering_id, u.id, u.email, u.username, u.first_name, u.last_name, u.created_at
		FROM gathering_participants gp
		JOIN users u ON u.id = gp.user_id
		JOIN gatherings ga ON ga.id = gp.gathering_id
		JOIN plans p ON p.id = ga.plan_id
		WHERE `+where+`
		ORDER BY u.username, u.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var gatheringID uuid.UUID
		u, err := scanParticipant(rows, &gatheringID)
		if err != nil {
			return err
		}
		if g, ok := gatherings[gatheringID]; ok {
			g.Participants = append(g.Participants, *u)
		}
	}
	return rows.Err()
}

func ownerIDArg(plan *models.Plan) any {
	if plan.Owner == nil {
		return nil
	}
	return plan.Owner.ID
}

func gameIDArg(plan *models.Plan) any {
	if plan.Game == nil {
		return nil
	}
	return plan.Game.ID
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
