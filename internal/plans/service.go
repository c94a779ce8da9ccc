package plans

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// PlanRepository is the durable plan and gathering storage. Finders return
// nil, nil when the record does not exist.
type PlanRepository interface {
	FindAll(ctx context.Context) ([]*models.Plan, error)
	FindAllPublic(ctx context.Context) ([]*models.Plan, error)
	FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]*models.Plan, error)
	FindAllByParticipant(ctx context.Context, userID uuid.UUID) ([]*models.Plan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	FindGathering(ctx context.Context, id uuid.UUID) (*models.Gathering, error)

	// CreatePlan stores the plan with its gatherings and rosters atomically.
	CreatePlan(ctx context.Context, plan *models.Plan) error
	// UpdatePlan overwrites scalar fields and the game reference only.
	UpdatePlan(ctx context.Context, plan *models.Plan) error
	ReplaceGatherings(ctx context.Context, planID uuid.UUID, gatherings []models.Gathering) error
	DeletePlan(ctx context.Context, id uuid.UUID) error

	// AddParticipant reports false when the gathering had no free seat.
	AddParticipant(ctx context.Context, gatheringID, userID uuid.UUID) (bool, error)
	RemoveParticipant(ctx context.Context, gatheringID, userID uuid.UUID) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type GameRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
}

// Service runs plan queries and mutations against the repositories.
type Service struct {
	plans    PlanRepository
	users    UserRepository
	games    GameRepository
	comments CommentRepository
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used to decide which gatherings are upcoming.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(plans PlanRepository, users UserRepository, games GameRepository, comments CommentRepository, opts ...Option) *Service {
	s := &Service{
		plans:    plans,
		users:    users,
		games:    games,
		comments: comments,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return models.DateOf(s.now())
}

// ListDiscoverable returns the public upcoming plans viewerID could join.
func (s *Service) ListDiscoverable(ctx context.Context, viewerID uuid.UUID) ([]PlanSummary, error) {
	all, err := s.plans.FindAllPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch public plans: %w", err)
	}
	return Discoverable(all, viewerID, s.today())
}

// ListOwned returns the upcoming plans created by ownerID.
func (s *Service) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]PlanSummary, error) {
	owned, err := s.plans.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch plans of owner %s: %w", ownerID, err)
	}
	return Owned(owned, s.today())
}

// ListAttending returns the plans viewerID takes part in, narrowed to the
// attended gatherings.
func (s *Service) ListAttending(ctx context.Context, viewerID uuid.UUID) ([]PlanSummary, error) {
	attended, err := s.plans.FindAllByParticipant(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch plans of participant %s: %w", viewerID, err)
	}
	return Attending(attended, viewerID, s.today())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (PlanReference, error) {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return PlanReference{}, err
	}
	return ToReference(plan), nil
}

func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (PlanDetail, error) {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return PlanDetail{}, err
	}
	return ToDetail(plan)
}

// Participants lists every distinct user taking part in any gathering of the plan.
func (s *Service) Participants(ctx context.Context, planID uuid.UUID) ([]UserView, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	users := []UserView{}
	for _, g := range plan.Gatherings {
		for i := range g.Participants {
			u := &g.Participants[i]
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			users = append(users, ToUserView(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Create stores a new plan owned by ownerID and returns its id. Every
// gathering starts with the owner as its only participant.
func (s *Service) Create(ctx context.Context, input models.CreatePlanInput, ownerID uuid.UUID) (uuid.UUID, error) {
	if err := validateInput(input); err != nil {
		return uuid.Nil, err
	}
	planID := uuid.New()
	gatherings, err := buildGatherings(planID, input.Gatherings)
	if err != nil {
		return uuid.Nil, err
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fetch owner %s: %w", ownerID, err)
	}
	if owner == nil {
		return uuid.Nil, fmt.Errorf("user %s: %w", ownerID, ErrNotFound)
	}
	game, err := s.resolveGame(ctx, input.GameID)
	if err != nil {
		return uuid.Nil, err
	}

	for i := range gatherings {
		gatherings[i].Participants = []models.User{*owner}
	}
	plan := &models.Plan{
		ID:          planID,
		Name:        input.Name,
		Description: input.Description,
		IsPrivate:   *input.IsPrivate,
		PlayerLimit: input.PlayerLimit,
		Owner:       owner,
		Game:        game,
		Gatherings:  gatherings,
	}
	if err := s.plans.CreatePlan(ctx, plan); err != nil {
		return uuid.Nil, fmt.Errorf("create plan: %w", err)
	}
	return planID, nil
}

// Update overwrites the scalar fields and game of a plan. Gatherings are left untouched.
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, input models.UpdatePlanInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	plan, err := s.loadOwnedPlan(ctx, id, actorID)
	if err != nil {
		return err
	}
	game, err := s.resolveGame(ctx, input.Game)
	if err != nil {
		return err
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.IsPrivate = *input.IsPrivate
	plan.PlayerLimit = input.PlayerLimit
	plan.Game = game
	if err := s.plans.UpdatePlan(ctx, plan); err != nil {
		return fmt.Errorf("update plan %s: %w", id, err)
	}
	return nil
}

// ReplaceGatherings swaps the whole gathering set of a plan. Rosters of the
// new gatherings start with the owner only.
func (s *Service) ReplaceGatherings(ctx context.Context, id, actorID uuid.UUID, inputs []models.GatheringInput) error {
	if err := validateInput(models.ReplaceGatheringsInput{Gatherings: inputs}); err != nil {
		return err
	}
	gatherings, err := buildGatherings(id, inputs)
	if err != nil {
		return err
	}
	plan, err := s.loadOwnedPlan(ctx, id, actorID)
	if err != nil {
		return err
	}
	for i := range gatherings {
		gatherings[i].Participants = []models.User{*plan.Owner}
	}
	if err := s.plans.ReplaceGatherings(ctx, id, gatherings); err != nil {
		return fmt.Errorf("replace gatherings of plan %s: %w", id, err)
	}
	return nil
}

// Delete removes a plan with its gatherings. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := s.loadOwnedPlan(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.plans.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return nil
}

// Join adds userID to an upcoming gathering that still has room. Joining a
// gathering twice is a no-op.
func (s *Service) Join(ctx context.Context, gatheringID, userID uuid.UUID) error {
	g, err := s.loadGathering(ctx, gatheringID)
	if err != nil {
		return err
	}
	if g.HasParticipant(userID) {
		return nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch user %s: %w", userID, err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	plan, err := s.loadPlan(ctx, g.PlanID)
	if err != nil {
		return err
	}

	if !g.Date.After(s.today()) {
		return fmt.Errorf("gathering %s on %s: %w", gatheringID, g.Date.Format(models.DateLayout), ErrGatheringPast)
	}
	if !g.Joinable(plan.PlayerLimit) {
		return fmt.Errorf("gathering %s: %w", gatheringID, ErrGatheringFull)
	}
	added, err := s.plans.AddParticipant(ctx, gatheringID, userID)
	if err != nil {
		return fmt.Errorf("add participant to gathering %s: %w", gatheringID, err)
	}
	if !added {
		// A concurrent join by the same user also inserts nothing.
		current, err := s.loadGathering(ctx, gatheringID)
		if err != nil {
			return err
		}
		if current.HasParticipant(userID) {
			return nil
		}
		return fmt.Errorf("gathering %s: %w", gatheringID, ErrGatheringFull)
	}
	return nil
}

// Leave removes userID from a gathering. Leaving a gathering one is not part of is a no-op.
func (s *Service) Leave(ctx context.Context, gatheringID, userID uuid.UUID) error {
	if _, err := s.loadGathering(ctx, gatheringID); err != nil {
		return err
	}
	if err := s.plans.RemoveParticipant(ctx, gatheringID, userID); err != nil {
		return fmt.Errorf("remove participant from gathering %s: %w", gatheringID, err)
	}
	return nil
}

func (s *Service) loadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch plan %s: %w", id, err)
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return plan, nil
}

func (s *Service) loadOwnedPlan(ctx context.Context, id, actorID uuid.UUID) (*models.Plan, error) {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Owner == nil {
		return nil, fmt.Errorf("plan %s has no owner: %w", id, ErrInvariant)
	}
	if plan.Owner.ID != actorID {
		return nil, fmt.Errorf("plan %s is not owned by %s: %w", id, actorID, ErrForbidden)
	}
	return plan, nil
}

func (s *Service) loadGathering(ctx context.Context, id uuid.UUID) (*models.Gathering, error) {
	g, err := s.plans.FindGathering(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch gathering %s: %w", id, err)
	}
	if g == nil {
		return nil, fmt.Errorf("gathering %s: %w", id, ErrNotFound)
	}
	return g, nil
}

func (s *Service) resolveGame(ctx context.Context, id *uuid.UUID) (*models.Game, error) {
	if id == nil {
		return nil, nil
	}
	game, err := s.games.FindByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("fetch game %s: %w", *id, err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %s: %w", *id, ErrNotFound)
	}
	return game, nil
}

// validateInput runs the validate tags of a request, the same checks the
// HTTP layer applies while decoding.
func validateInput(input any) error {
	if err := models.Validate(input); err != nil {
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}
	return nil
}

// buildGatherings parses every input before anything is stored, so one
// malformed entry rejects the whole set.
func buildGatherings(planID uuid.UUID, inputs []models.GatheringInput) ([]models.Gathering, error) {
	gatherings := make([]models.Gathering, 0, len(inputs))
	for i, in := range inputs {
		date, err := models.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("gathering %d: %v: %w", i, err, ErrValidation)
		}
		start, err := models.ParseStartTime(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("gathering %d: %v: %w", i, err, ErrValidation)
		}
		gatherings = append(gatherings, models.Gathering{
			ID:        uuid.New(),
			PlanID:    planID,
			Date:      date,
			StartTime: start,
		})
	}
	return gatherings, nil
}
