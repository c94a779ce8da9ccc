package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// The store types adapt the query functions of this package to the
// repository interfaces of the service layer. Finders return nil, nil when
// the record does not exist.

type PlanStore struct{ db *DB }

func NewPlanStore(db *DB) *PlanStore { return &PlanStore{db: db} }

func (s *PlanStore) FindAll(ctx context.Context) ([]*models.Plan, error) {
	return GetAllPlans(ctx, s.db)
}

func (s *PlanStore) FindAllPublic(ctx context.Context) ([]*models.Plan, error) {
	return GetPublicPlans(ctx, s.db)
}

func (s *PlanStore) FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]*models.Plan, error) {
	return GetPlansByOwner(ctx, s.db, userID)
}

func (s *PlanStore) FindAllByParticipant(ctx context.Context, userID uuid.UUID) ([]*models.Plan, error) {
	return GetPlansByParticipant(ctx, s.db, userID)
}

func (s *PlanStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	return orNil(GetPlanByID(ctx, s.db, id))
}

func (s *PlanStore) FindGathering(ctx context.Context, id uuid.UUID) (*models.Gathering, error) {
	return orNil(GetGatheringByID(ctx, s.db, id))
}

func (s *PlanStore) CreatePlan(ctx context.Context, plan *models.Plan) error {
	return CreatePlan(ctx, s.db, plan)
}

func (s *PlanStore) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	return UpdatePlan(ctx, s.db, plan)
}

func (s *PlanStore) ReplaceGatherings(ctx context.Context, planID uuid.UUID, gatherings []models.Gathering) error {
	return ReplaceGatherings(ctx, s.db, planID, gatherings)
}

func (s *PlanStore) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return DeletePlan(ctx, s.db, id)
}

func (s *PlanStore) AddParticipant(ctx context.Context, gatheringID, userID uuid.UUID) (bool, error) {
	return AddParticipant(ctx, s.db, gatheringID, userID)
}

func (s *PlanStore) RemoveParticipant(ctx context.Context, gatheringID, userID uuid.UUID) error {
	return RemoveParticipant(ctx, s.db, gatheringID, userID)
}

type UserStore struct{ db *DB }

func NewUserStore(db *DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return orNil(GetUserByID(ctx, s.db, id))
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	return GetAllUsers(ctx, s.db)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return orNil(GetUserByEmail(ctx, s.db, email))
}

func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return CreateUser(ctx, s.db, user)
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	return UpdateUser(ctx, s.db, user)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return UpdatePasswordHash(ctx, s.db, id, hash)
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return DeleteUser(ctx, s.db, id)
}

type GameStore struct{ db *DB }

func NewGameStore(db *DB) *GameStore { return &GameStore{db: db} }

func (s *GameStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return orNil(GetGameByID(ctx, s.db, id))
}

func (s *GameStore) List(ctx context.Context, search string, page int) ([]*models.Game, error) {
	return GetAllGames(ctx, s.db, search, page)
}

func (s *GameStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Game, error) {
	return GetGamesByUser(ctx, s.db, userID)
}

func (s *GameStore) AddToCollection(ctx context.Context, userID, gameID uuid.UUID) error {
	return AddGameToCollection(ctx, s.db, userID, gameID)
}

func (s *GameStore) RemoveFromCollection(ctx context.Context, userID, gameID uuid.UUID) error {
	return RemoveGameFromCollection(ctx, s.db, userID, gameID)
}

func (s *GameStore) Create(ctx context.Context, game *models.Game) (*models.Game, error) {
	return CreateGame(ctx, s.db, game)
}

type CommentStore struct{ db *DB }

func NewCommentStore(db *DB) *CommentStore { return &CommentStore{db: db} }

func (s *CommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := CreateComment(ctx, s.db, comment)
	return err
}

func (s *CommentStore) FindComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return orNil(GetCommentByID(ctx, s.db, id))
}

func (s *CommentStore) FindCommentsByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Comment, error) {
	return GetCommentsForPlan(ctx, s.db, planID)
}

func (s *CommentStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return UpdateComment(ctx, s.db, comment)
}

func (s *CommentStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return DeleteComment(ctx, s.db, id)
}

func orNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}
