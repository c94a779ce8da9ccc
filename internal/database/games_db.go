package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

const gameColumns = "id, name, description, image_url, min_player, max_player"

// CreateGame inserts a new game into the games table.
func CreateGame(ctx context.Context, q Querier, game *models.Game) (*models.Game, error) {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO games("+gameColumns+") VALUES(?, ?, ?, ?, ?, ?)",
		game.ID, game.Name, game.Description, game.ImageURL, game.MinPlayer, game.MaxPlayer,
	)
	if err != nil {
		return nil, err
	}
	return GetGameByID(ctx, q, game.ID)
}

// GetGameByID retrieves a game by its ID.
func GetGameByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Game, error) {
	game := &models.Game{}
	row := q.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	err := row.Scan(&game.ID, &game.Name, &game.Description, &game.ImageURL, &game.MinPlayer, &game.MaxPlayer)
	if err != nil {
		return nil, err // This will include sql.ErrNoRows if not found
	}
	return game, nil
}

// GamePageSize is the number of games GetAllGames returns per page.
const GamePageSize = 20

// GetAllGames returns one page of games whose name contains search,
// ignoring case, ordered by name. Pages start at 0. An empty search
// matches every game.
func GetAllGames(ctx context.Context, q Querier, search string, page int) ([]*models.Game, error) {
	if page < 0 {
		page = 0
	}
	rows, err := q.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE LOWER(name) LIKE ? ESCAPE '\\' ORDER BY name ASC, id ASC LIMIT ? OFFSET ?",
		"%"+escapeLike(strings.ToLower(search))+"%", GamePageSize, page*GamePageSize,
	)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

// AddGameToCollection records that the user owns the game. Adding a game
// twice is a no-op.
func AddGameToCollection(ctx context.Context, q Querier, userID, gameID uuid.UUID) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO user_games(user_id, game_id) VALUES(?, ?) ON CONFLICT DO NOTHING",
		userID, gameID,
	)
	return err
}

func RemoveGameFromCollection(ctx context.Context, q Querier, userID, gameID uuid.UUID) error {
	_, err := q.ExecContext(ctx, "DELETE FROM user_games WHERE user_id = ? AND game_id = ?", userID, gameID)
	return err
}

// GetGamesByUser returns the collection of a user ordered by name.
func GetGamesByUser(ctx context.Context, q Querier, userID uuid.UUID) ([]*models.Game, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT g.id, g.name, g.description, g.image_url, g.min_player, g.max_player FROM games g "+
			"JOIN user_games ug ON ug.game_id = g.id WHERE ug.user_id = ? ORDER BY g.name ASC, g.id ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

func scanGames(rows *sql.Rows) ([]*models.Game, error) {
	defer rows.Close()

	games := []*models.Game{}
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(&game.ID, &game.Name, &game.Description, &game.ImageURL, &game.MinPlayer, &game.MaxPlayer)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
