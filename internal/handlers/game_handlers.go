package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
	"github.com/shoedler/tabletop-gather/internal/plans"
)

// GameCatalog is the game storage used by the catalogue and collection
// endpoints. FindByID returns nil, nil for unknown ids.
type GameCatalog interface {
	List(ctx context.Context, search string, page int) ([]*models.Game, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) (*models.Game, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Game, error)
	AddToCollection(ctx context.Context, userID, gameID uuid.UUID) error
	RemoveFromCollection(ctx context.Context, userID, gameID uuid.UUID) error
}

type gameView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	MinPlayer   int       `json:"minPlayer"`
	MaxPlayer   int       `json:"maxPlayer"`
}

func toGameView(g *models.Game) gameView {
	return gameView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ImageURL:    g.ImageURL,
		MinPlayer:   g.MinPlayer,
		MaxPlayer:   g.MaxPlayer,
	}
}

func writeGames(w http.ResponseWriter, list []*models.Game) {
	views := make([]gameView, 0, len(list))
	for _, g := range list {
		views = append(views, toGameView(g))
	}
	writeJSON(w, http.StatusOK, views)
}

// ListGames returns one page of the catalogue ordered by name, optionally
// narrowed by ?search=. Pages are selected with ?page= and start at 0.
func ListGames(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if raw := r.URL.Query().Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, r, fmt.Errorf("%w: page must be a non-negative number", plans.ErrValidation))
				return
			}
			page = n
		}
		list, err := games.List(r.Context(), r.URL.Query().Get("search"), page)
		if err != nil {
			writeError(w, r, fmt.Errorf("list games: %w", err))
			return
		}
		writeGames(w, list)
	}
}

// ListOwnGames returns the caller's collection ordered by name.
func ListOwnGames(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		list, err := games.ListByUser(r.Context(), user.ID)
		if err != nil {
			writeError(w, r, fmt.Errorf("list games of %s: %w", user.ID, err))
			return
		}
		writeGames(w, list)
	}
}

// AddToCollection puts the game into the caller's collection. Adding a
// collected game again is a no-op.
func AddToCollection(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		game, err := games.FindByID(r.Context(), id)
		if err != nil {
			writeError(w, r, fmt.Errorf("fetch game %s: %w", id, err))
			return
		}
		if game == nil {
			writeError(w, r, fmt.Errorf("game %s: %w", id, plans.ErrNotFound))
			return
		}
		if err := games.AddToCollection(r.Context(), currentUser(r).ID, id); err != nil {
			writeError(w, r, fmt.Errorf("collect game %s: %w", id, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemoveFromCollection(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := games.RemoveFromCollection(r.Context(), currentUser(r).ID, id); err != nil {
			writeError(w, r, fmt.Errorf("uncollect game %s: %w", id, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetGame(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		game, err := games.FindByID(r.Context(), id)
		if err != nil {
			writeError(w, r, fmt.Errorf("fetch game %s: %w", id, err))
			return
		}
		if game == nil {
			writeError(w, r, fmt.Errorf("game %s: %w", id, plans.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, toGameView(game))
	}
}

func CreateGame(games GameCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.CreateGameInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		game, err := games.Create(r.Context(), &models.Game{
			Name:        input.Name,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			MinPlayer:   input.MinPlayer,
			MaxPlayer:   input.MaxPlayer,
		})
		if err != nil {
			writeError(w, r, fmt.Errorf("create game: %w", err))
			return
		}
		writeJSON(w, http.StatusCreated, toGameView(game))
	}
}
